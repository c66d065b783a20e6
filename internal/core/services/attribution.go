package services

import "github.com/custodia-labs/fitedit/internal/core/domain"

// AttributionRuleSet decides which device attribution a message should carry.
// It is a pure lookup over (kind, manufacturer, product).
type AttributionRuleSet struct {
	target domain.DeviceProfile
	// deviceSources are the manufacturers whose device_info messages are rewritten.
	deviceSources map[domain.Manufacturer]struct{}
}

// NewAttributionRuleSet builds the rules for the given target profile.
func NewAttributionRuleSet(target domain.DeviceProfile) *AttributionRuleSet {
	sources := map[domain.Manufacturer]struct{}{
		domain.ManufacturerDevelopment: {},
		domain.ManufacturerUnset:       {},
	}
	for _, m := range target.ThirdParty {
		sources[m] = struct{}{}
	}
	// The target vendor never matches a precondition, which keeps the rules idempotent.
	delete(sources, target.Manufacturer)

	return &AttributionRuleSet{
		target:        target,
		deviceSources: sources,
	}
}

// Target returns the profile messages are rewritten to.
func (r *AttributionRuleSet) Target() domain.DeviceProfile {
	return r.target
}

// Rewrite returns the manufacturer and product a message of the given kind
// should carry. ok is false when no rule matches and the message passes
// through unchanged.
func (r *AttributionRuleSet) Rewrite(
	kind domain.MessageKind,
	manufacturer domain.Manufacturer,
	product uint16,
) (newManufacturer domain.Manufacturer, newProduct uint16, ok bool) {
	switch kind {
	case domain.KindFileIdentity:
		if manufacturer == domain.ManufacturerDevelopment && manufacturer != r.target.Manufacturer {
			return r.target.Manufacturer, r.target.Product, true
		}
	case domain.KindDeviceInfo:
		if _, match := r.deviceSources[manufacturer]; match {
			return r.target.Manufacturer, r.target.Product, true
		}
	case domain.KindOther:
	}
	return manufacturer, product, false
}

// Apply returns a rewritten copy of msg, or msg itself and false when no rule
// matches. msg is never modified.
func (r *AttributionRuleSet) Apply(msg domain.Message) (domain.Message, bool) {
	switch m := msg.(type) {
	case *domain.FileIdentity:
		man, prod, ok := r.Rewrite(domain.KindFileIdentity, m.Manufacturer, m.Product)
		if !ok {
			return msg, false
		}
		out := *m
		out.Manufacturer = man
		out.Product = prod
		return &out, true
	case *domain.DeviceInfo:
		man, prod, ok := r.Rewrite(domain.KindDeviceInfo, m.Manufacturer, m.Product)
		if !ok {
			return msg, false
		}
		out := *m
		out.Manufacturer = man
		out.Product = prod
		out.GarminProduct = prod
		return &out, true
	case *domain.Other:
		return msg, false
	default:
		return msg, false
	}
}
