// Package catalog compiles the declarative service descriptors into the
// checkout catalog: one generic flow parameterized by target field,
// validation rule and pricing source, instead of one hand-rolled form
// per utility provider.
package catalog

import (
	"fmt"

	"github.com/jwhande57/zimutilityxpress/pkg/config"
	"github.com/jwhande57/zimutilityxpress/pkg/validate"
)

type AmountSource string

const (
	// AmountsFixed offers a predefined amount list (airtime, electricity).
	AmountsFixed AmountSource = "fixed"
	// AmountsStock resolves selectable bundles and their prices from the
	// upstream stock endpoint.
	AmountsStock AmountSource = "stock"
)

// Service is a compiled descriptor for one purchasable service.
type Service struct {
	ID           string
	Name         string
	ProductID    int
	TargetField  string
	TargetLabel  string
	AmountSource AmountSource
	Amounts      []float64
	Airtime      bool
	Notification string

	validate func(string) bool
}

// ValidTarget checks the customer identifier against the service's
// validation rule.
func (s *Service) ValidTarget(target string) bool {
	if s.validate == nil {
		return target != ""
	}
	return s.validate(target)
}

var validators = map[string]func(string) bool{
	"econet":         validate.EconetNumber,
	"netone":         validate.NetOneNumber,
	"zim-mobile":     validate.ZimMobileNumber,
	"meter":          validate.MeterNumber,
	"telone-account": validate.TelOneAccount,
	"policy":         validate.PolicyNumber,
}

// Catalog holds the compiled services keyed by id, preserving the
// declaration order for listings.
type Catalog struct {
	services map[string]*Service
	order    []string
}

// New compiles descriptors into a catalog. Unknown validator names or
// duplicate ids are configuration mistakes and fail loading.
func New(descriptors []config.ServiceDescriptor) (*Catalog, error) {
	c := &Catalog{services: make(map[string]*Service)}

	for _, d := range descriptors {
		if d.ID == "" || d.Name == "" {
			return nil, fmt.Errorf("service descriptor missing id or name: %+v", d)
		}
		if _, exists := c.services[d.ID]; exists {
			return nil, fmt.Errorf("duplicate service id %q", d.ID)
		}

		source := AmountSource(d.AmountSource)
		switch source {
		case AmountsFixed, AmountsStock:
		case "":
			source = AmountsFixed
		default:
			return nil, fmt.Errorf("service %q: unknown amount source %q", d.ID, d.AmountSource)
		}

		var validateFn func(string) bool
		if d.Validator != "" {
			fn, ok := validators[d.Validator]
			if !ok {
				return nil, fmt.Errorf("service %q: unknown validator %q", d.ID, d.Validator)
			}
			validateFn = fn
		}

		svc := &Service{
			ID:           d.ID,
			Name:         d.Name,
			ProductID:    d.ProductID,
			TargetField:  d.TargetField,
			TargetLabel:  d.TargetLabel,
			AmountSource: source,
			Amounts:      d.Amounts,
			Airtime:      d.Airtime,
			Notification: d.Notification,
			validate:     validateFn,
		}
		if svc.TargetField == "" {
			svc.TargetField = "phoneNumber"
		}

		c.services[d.ID] = svc
		c.order = append(c.order, d.ID)
	}

	return c, nil
}

// Get returns the service for id, or nil when it is not in the catalog.
func (c *Catalog) Get(id string) *Service {
	return c.services[id]
}

// List returns all services in declaration order.
func (c *Catalog) List() []*Service {
	out := make([]*Service, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.services[id])
	}
	return out
}

// DefaultDescriptors is the built-in Zimbabwe market catalog, used when
// the configuration declares no services.
func DefaultDescriptors() []config.ServiceDescriptor {
	return []config.ServiceDescriptor{
		{
			ID:          "econet-airtime",
			Name:        "Econet Airtime",
			ProductID:   45,
			TargetField: "phoneNumber",
			TargetLabel: "Phone Number",
			Validator:   "econet",
			Amounts:     []float64{0.50, 1, 2, 5, 10, 20, 50},
			Airtime:     true,
		},
		{
			ID:          "netone-airtime",
			Name:        "NetOne Airtime",
			ProductID:   46,
			TargetField: "phoneNumber",
			TargetLabel: "Phone Number",
			Validator:   "netone",
			Amounts:     []float64{0.50, 1, 2, 5, 10, 20, 50},
			Airtime:     true,
		},
		{
			ID:           "econet-data",
			Name:         "Econet Data",
			ProductID:    44,
			TargetField:  "phoneNumber",
			TargetLabel:  "Phone Number",
			Validator:    "econet",
			AmountSource: string(AmountsStock),
			Airtime:      true,
		},
		{
			ID:           "econet-smartbiz",
			Name:         "Econet SmartBiz",
			ProductID:    47,
			TargetField:  "phoneNumber",
			TargetLabel:  "Phone Number",
			Validator:    "econet",
			AmountSource: string(AmountsStock),
			Airtime:      true,
			Notification: "Your Econet SmartBiz bundle %BUNDLE% has been added to your account. You're all set to browse, stream, and stay connected.",
		},
		{
			ID:           "telone-broadband",
			Name:         "TelOne Broadband",
			ProductID:    48,
			TargetField:  "accountNumber",
			TargetLabel:  "Account Number",
			Validator:    "telone-account",
			AmountSource: string(AmountsStock),
		},
		{
			ID:          "zesa-electricity",
			Name:        "ZESA Electricity",
			ProductID:   49,
			TargetField: "meterNumber",
			TargetLabel: "Meter Number",
			Validator:   "meter",
			Amounts:     []float64{1, 2, 5, 10, 20, 50, 100},
		},
		{
			ID:          "nyaradzo-policy",
			Name:        "Nyaradzo Policy",
			ProductID:   50,
			TargetField: "policyNumber",
			TargetLabel: "Policy Number",
			Validator:   "policy",
			Amounts:     []float64{5, 10, 20, 45, 50, 100},
		},
	}
}
