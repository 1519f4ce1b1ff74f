package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/opt"
	"github.com/peoplepower/ppsync-go/pkg/store"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// PlanStatus is the purchase state of a service plan.
type PlanStatus int

const (
	PlanStatusNone PlanStatus = iota
	PlanStatusInitial
	PlanStatusActive
	PlanStatusExpiredOrCanceled
	PlanStatusUnrecognized
)

func (s PlanStatus) String() string {
	switch s {
	case PlanStatusNone:
		return "none"
	case PlanStatusInitial:
		return "initial"
	case PlanStatusActive:
		return "active"
	case PlanStatusExpiredOrCanceled:
		return "expired"
	default:
		return "unrecognized"
	}
}

// PlanStatuses maps plan status codes.
var PlanStatuses = enum.NewTable("plan status", PlanStatusUnrecognized,
	enum.Entry[PlanStatus]{Variant: PlanStatusNone, Code: -2, Names: []string{"none"}},
	enum.Entry[PlanStatus]{Variant: PlanStatusInitial, Code: -1, Names: []string{"initial"}},
	enum.Entry[PlanStatus]{Variant: PlanStatusActive, Code: 0, Names: []string{"active"}},
	enum.Entry[PlanStatus]{Variant: PlanStatusExpiredOrCanceled, Code: 1, Names: []string{"expired", "canceled"}},
)

// SubscriptionType is how a plan is billed.
type SubscriptionType int

const (
	SubscriptionOneTime SubscriptionType = iota
	SubscriptionWeekly
	SubscriptionMonthly
	SubscriptionAnnual
	SubscriptionUnrecognized
)

// SubscriptionTypes maps subscription type codes.
var SubscriptionTypes = enum.NewTable("subscription type", SubscriptionUnrecognized,
	enum.Entry[SubscriptionType]{Variant: SubscriptionOneTime, Code: 1, Names: []string{"one-time"}},
	enum.Entry[SubscriptionType]{Variant: SubscriptionWeekly, Code: 2, Names: []string{"weekly"}},
	enum.Entry[SubscriptionType]{Variant: SubscriptionMonthly, Code: 3, Names: []string{"monthly"}},
	enum.Entry[SubscriptionType]{Variant: SubscriptionAnnual, Code: 4, Names: []string{"annual"}},
)

// PaymentType is the payment gateway of a purchase.
type PaymentType int

const (
	PaymentManual PaymentType = iota
	PaymentAppleInApp
	PaymentPaypal
	PaymentBraintree
	PaymentUnrecognized
)

// PaymentTypes maps payment type codes.
var PaymentTypes = enum.NewTable("payment type", PaymentUnrecognized,
	enum.Entry[PaymentType]{Variant: PaymentManual, Code: 0, Names: []string{"manual"}},
	enum.Entry[PaymentType]{Variant: PaymentAppleInApp, Code: 1, Names: []string{"apple"}},
	enum.Entry[PaymentType]{Variant: PaymentPaypal, Code: 2, Names: []string{"paypal"}},
	enum.Entry[PaymentType]{Variant: PaymentBraintree, Code: 3, Names: []string{"braintree"}},
)

// ServicePlan is a purchasable bundle of software services.
type ServicePlan struct {
	ID            opt.Value[int]
	Name          opt.Value[string]
	Desc          opt.Value[string]
	Available     opt.Value[enum.TriState]
	Subscribed    opt.Value[enum.TriState]
	Status        opt.Value[PlanStatus]
	UpgradableTo  opt.Value[[]int]
	Prices        opt.Value[[]*Price]
	Subscriptions opt.Value[[]*SoftwareSubscription]
}

// Price is one purchase option of a plan.
type Price struct {
	ID               opt.Value[int]
	Type             opt.Value[SubscriptionType]
	PaymentType      opt.Value[PaymentType]
	Free             opt.Value[enum.TriState]
	Duration         opt.Value[int]
	GatewayID        opt.Value[string]
	AppleStoreID     opt.Value[string]
	GatewaySandboxID opt.Value[string]
	Amount           *PriceAmount
}

// PriceAmount is a money amount.
type PriceAmount struct {
	Value          opt.Value[decimal.Decimal]
	CurrencyCode   opt.Value[string]
	CurrencySymbol opt.Value[string]
}

// String formats the amount as "<symbol><value> <code>".
func (a *PriceAmount) String() string {
	if a == nil || !a.Value.IsSet() {
		return ""
	}
	v, _ := a.Value.Get()
	s := a.CurrencySymbol.Or("") + v.StringFixed(2)
	if code, ok := a.CurrencyCode.Get(); ok {
		s += " " + code
	}
	return s
}

// SoftwareSubscription is a plan purchase owned by the user. The plan is
// a weak reference resolved through the plan collection.
type SoftwareSubscription struct {
	UserPlanID     opt.Value[int]
	Type           opt.Value[SubscriptionType]
	PaymentType    opt.Value[PaymentType]
	StartDate      opt.Value[time.Time]
	EndDate        opt.Value[time.Time]
	GatewayID      opt.Value[string]
	Sandbox        opt.Value[enum.TriState]
	Duration       opt.Value[int]
	Free           opt.Value[enum.TriState]
	OrganizationID opt.Value[int64]
	SubscriptionID opt.Value[string]
	TransactionID  opt.Value[string]
	Plan           opt.Value[store.Ref[int]]
}

// Active reports whether the subscription covers t.
func (s *SoftwareSubscription) Active(t time.Time) bool {
	start, ok := s.StartDate.Get()
	if !ok || t.Before(start) {
		return false
	}
	end, ok := s.EndDate.Get()
	return !ok || t.Before(end)
}

// PriceAmountTable is the field table of PriceAmount.
var PriceAmountTable = model.NewTable[PriceAmount]("priceAmount",
	model.Amount("value", func(a *PriceAmount) *opt.Value[decimal.Decimal] { return &a.Value }),
	model.String("currencyCode", func(a *PriceAmount) *opt.Value[string] { return &a.CurrencyCode }),
	model.String("currencySymbol", func(a *PriceAmount) *opt.Value[string] { return &a.CurrencySymbol }),
)

// PriceTable is the field table of Price.
var PriceTable = model.NewTable[Price]("price",
	model.Int("id", func(p *Price) *opt.Value[int] { return &p.ID }).Identity(),
	model.Enum("type", func(p *Price) *opt.Value[SubscriptionType] { return &p.Type }, SubscriptionTypes),
	model.Enum("paymentType", func(p *Price) *opt.Value[PaymentType] { return &p.PaymentType }, PaymentTypes),
	model.TriState("free", func(p *Price) *opt.Value[enum.TriState] { return &p.Free }),
	model.Int("duration", func(p *Price) *opt.Value[int] { return &p.Duration }),
	model.String("gatewayId", func(p *Price) *opt.Value[string] { return &p.GatewayID }),
	model.String("appleStoreId", func(p *Price) *opt.Value[string] { return &p.AppleStoreID }),
	model.String("gatewaySandboxId", func(p *Price) *opt.Value[string] { return &p.GatewaySandboxID }),
	model.Record("amount", func(p *Price) **PriceAmount { return &p.Amount }, PriceAmountTable),
)

// SoftwareSubscriptionTable is the field table of SoftwareSubscription.
var SoftwareSubscriptionTable = model.NewTable[SoftwareSubscription]("softwareSubscription",
	model.Int("userPlanId", func(s *SoftwareSubscription) *opt.Value[int] { return &s.UserPlanID }).Identity(),
	model.Enum("type", func(s *SoftwareSubscription) *opt.Value[SubscriptionType] { return &s.Type }, SubscriptionTypes),
	model.Enum("paymentType", func(s *SoftwareSubscription) *opt.Value[PaymentType] { return &s.PaymentType }, PaymentTypes),
	model.Time("startDate", func(s *SoftwareSubscription) *opt.Value[time.Time] { return &s.StartDate }),
	model.Time("endDate", func(s *SoftwareSubscription) *opt.Value[time.Time] { return &s.EndDate }),
	model.String("gatewayId", func(s *SoftwareSubscription) *opt.Value[string] { return &s.GatewayID }),
	model.TriState("sandbox", func(s *SoftwareSubscription) *opt.Value[enum.TriState] { return &s.Sandbox }),
	model.Int("duration", func(s *SoftwareSubscription) *opt.Value[int] { return &s.Duration }),
	model.TriState("free", func(s *SoftwareSubscription) *opt.Value[enum.TriState] { return &s.Free }),
	model.Int64("organizationId", func(s *SoftwareSubscription) *opt.Value[int64] { return &s.OrganizationID }),
	model.String("subscriptionId", func(s *SoftwareSubscription) *opt.Value[string] { return &s.SubscriptionID }),
	model.String("transactionId", func(s *SoftwareSubscription) *opt.Value[string] { return &s.TransactionID }),
	model.Ref("planId", func(s *SoftwareSubscription) *opt.Value[store.Ref[int]] { return &s.Plan }, wire.ToInt),
)

// ServicePlanTable is the field table of ServicePlan.
var ServicePlanTable = model.NewTable[ServicePlan]("servicePlan",
	model.Int("planId", func(p *ServicePlan) *opt.Value[int] { return &p.ID }).Identity(),
	model.String("name", func(p *ServicePlan) *opt.Value[string] { return &p.Name }),
	model.String("desc", func(p *ServicePlan) *opt.Value[string] { return &p.Desc }),
	model.TriState("available", func(p *ServicePlan) *opt.Value[enum.TriState] { return &p.Available }),
	model.TriState("subscribed", func(p *ServicePlan) *opt.Value[enum.TriState] { return &p.Subscribed }),
	model.Enum("status", func(p *ServicePlan) *opt.Value[PlanStatus] { return &p.Status }, PlanStatuses),
	model.Ints("upgradableTo", func(p *ServicePlan) *opt.Value[[]int] { return &p.UpgradableTo }),
	model.Records("prices", func(p *ServicePlan) *opt.Value[[]*Price] { return &p.Prices }, PriceTable),
	model.Records("subscriptions", func(p *ServicePlan) *opt.Value[[]*SoftwareSubscription] { return &p.Subscriptions }, SoftwareSubscriptionTable),
)

// ServicePlanKey returns the collection key of a plan.
func ServicePlanKey(p *ServicePlan) int { return p.ID.Or(0) }

// SoftwareSubscriptionKey returns the collection key of a subscription.
func SoftwareSubscriptionKey(s *SoftwareSubscription) int { return s.UserPlanID.Or(0) }
