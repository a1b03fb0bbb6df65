package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
)

// SendDuplicatePharmacyAlert posts a best-effort alert when a pharmacy is
// registered under a name that already exists. Failures are logged only.
func SendDuplicatePharmacyAlert(name, city string) {
	url := os.Getenv("ALERT_WEBHOOK_URL")
	if url == "" {
		return
	}

	payload := map[string]string{
		"message": "pharmacy registered with an already existing name",
		"name":    name,
		"city":    city,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("alert webhook failed: %v", err)
		return
	}
	defer resp.Body.Close()
}
