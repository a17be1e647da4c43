package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"resto-api/models"
)

// SendWhatsApp pushes a notification through the fonnte.com API. No-op
// when FONNTE_TOKEN is not configured.
func SendWhatsApp(phone, message string) error {
	token := os.Getenv("FONNTE_TOKEN")
	if token == "" {
		return nil
	}

	payload := map[string]string{
		"target":  phone,
		"message": message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.fonnte.com/send", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fonnte returned status %d", resp.StatusCode)
	}
	return nil
}

func FormatSalePaid(sale *models.Sale) string {
	msg := fmt.Sprintf("SALE #%d PAID\nTotal: %.2f\nDate: %s\nPayments:\n", sale.ID, sale.Total, sale.DateKey)
	for _, p := range sale.Payments {
		msg += fmt.Sprintf("- %s %.2f\n", p.Method, p.Amount)
	}
	return msg
}

func FormatSaleVoided(sale *models.Sale) string {
	reason := ""
	if sale.VoidReason != nil {
		reason = *sale.VoidReason
	}
	return fmt.Sprintf("SALE #%d VOIDED\nTotal: %.2f\nReason: %s", sale.ID, sale.Total, reason)
}
