package notify

import (
	"encoding/json"
	"fmt"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/requests"
)

// Notifier pushes catalog events to configured webhooks.
type Notifier struct {
	webhooks []string
}

// New builds a notifier. Blank webhook URLs are dropped, so passing an
// unset config value yields a notifier that does nothing.
func New(webhooks ...string) *Notifier {
	n := &Notifier{}
	for _, webhook := range webhooks {
		if webhook != "" {
			n.webhooks = append(n.webhooks, webhook)
		}
	}
	return n
}

// Send fans the event out to every webhook without blocking the caller.
func (n *Notifier) Send(ev models.Event) {
	if len(n.webhooks) == 0 {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		fmt.Printf("ERROR MARSHALING EVENT: %v\n", err)
		return
	}
	for _, webhook := range n.webhooks {
		go post(webhook, body)
	}
}

func post(webhook string, body []byte) {
	_, err := requests.Post(webhook, body, map[string]string{"Content-Type": "application/json"})
	if err != nil {
		fmt.Printf("ERROR SENDING WEBHOOK: %v\n", err)
	}
}
