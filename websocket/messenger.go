// file: websocket/messenger.go
package websocket

import (
	"encoding/json"

	"zerosync-web/logger"
	"zerosync-web/models"
)

// NotifySession sends {"action":"sessionChanged",...} to the visitor's tabs.
func (h *Hub) NotifySession(visitorID string, session models.Session) {
	msg := sessionMessage(session)
	if msg == nil {
		return
	}
	n := h.sendToVisitor(visitorID, msg)
	logger.Info.Printf("[NotifySession] visitor=%s state=%s delivered=%d", visitorID, session.State, n)
}

// NotifyCurrency tells the visitor's other tabs to re-render prices.
func (h *Hub) NotifyCurrency(visitorID string, currency models.Currency) {
	msg := mustMarshal(map[string]string{
		"action":   "currencyChanged",
		"currency": currency.Code(),
		"symbol":   currency.Symbol(),
	})
	if msg == nil {
		return
	}
	n := h.sendToVisitor(visitorID, msg)
	logger.Debug.Printf("[NotifyCurrency] visitor=%s currency=%s delivered=%d", visitorID, currency, n)
}

type sessionPayload struct {
	Action string `json:"action"`
	models.Session
}

func sessionMessage(session models.Session) []byte {
	return mustMarshal(sessionPayload{Action: "sessionChanged", Session: session})
}

func mustMarshal(v interface{}) []byte {
	m, err := json.Marshal(v)
	if err != nil {
		logger.Error.Printf("Error marshalling message: %v", err)
		return nil
	}
	return m
}
