package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// RewriteResult is the output of a MessageRewriter pass.
type RewriteResult struct {
	Messages []domain.Message
	// ActivityTime is the first file_id creation time seen, if any.
	ActivityTime *time.Time
	// Changed counts messages whose attribution was rewritten.
	Changed int
	// Dropped counts messages removed by the drop list.
	Dropped int
}

// MessageRewriter applies attribution rules to a decoded message sequence.
type MessageRewriter struct {
	rules *AttributionRuleSet
	drop  map[uint16]struct{}
}

// NewMessageRewriter creates a rewriter. Messages whose global number is in
// drop are removed from the output; pass nil to keep every message.
func NewMessageRewriter(rules *AttributionRuleSet, drop []uint16) *MessageRewriter {
	w := &MessageRewriter{rules: rules}
	if len(drop) > 0 {
		w.drop = make(map[uint16]struct{}, len(drop))
		for _, g := range drop {
			w.drop[g] = struct{}{}
		}
	}
	return w
}

// Rewrite walks messages once, in order, and returns the rewritten sequence.
// The input slice and its messages are not modified.
func (w *MessageRewriter) Rewrite(messages []domain.Message) RewriteResult {
	res := RewriteResult{Messages: make([]domain.Message, 0, len(messages))}

	for i, msg := range messages {
		if fid, ok := msg.(*domain.FileIdentity); ok && res.ActivityTime == nil && !fid.TimeCreated.IsZero() {
			ts := fid.TimeCreated
			res.ActivityTime = &ts
			logger.Debug("Activity timestamp is %q", ts.Format(time.RFC3339))
		}

		if _, skip := w.drop[msg.Global()]; skip {
			res.Dropped++
			continue
		}

		out, changed := w.rules.Apply(msg)
		if changed {
			res.Changed++
			logger.Debug("Record %d: %s", i, describe(msg))
			logger.Debug("    New record %d: %s", i, describe(out))
		}
		res.Messages = append(res.Messages, out)
	}

	return res
}

// describe formats the attribution fields of a message for debug output.
func describe(msg domain.Message) string {
	switch m := msg.(type) {
	case *domain.FileIdentity:
		return attribution(m.Kind(), m.Manufacturer, m.Product, m.Product)
	case *domain.DeviceInfo:
		return attribution(m.Kind(), m.Manufacturer, m.Product, m.GarminProduct)
	default:
		return msg.Kind().String()
	}
}

func attribution(kind domain.MessageKind, man domain.Manufacturer, product, garminProduct uint16) string {
	return fmt.Sprintf("%s manufacturer=%d product=%d garmin_product=%d", kind, man, product, garminProduct)
}
