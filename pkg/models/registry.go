package models

import (
	"slices"

	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/session"
)

// Collection names.
const (
	ServicePlans            = "servicePlans"
	SoftwareSubscriptions   = "softwareSubscriptions"
	DeviceTypeGoals         = "deviceTypeGoals"
	DeviceTypeMediaFiles    = "deviceTypeMedia"
	Notifications           = "notifications"
	RuleComponentParameters = "ruleComponentParameters"
	QuestionCollections     = "questionCollections"
	Devices                 = "devices"
)

// Collections holds the typed collections of a session.
type Collections struct {
	Plans         *session.Collection[int, ServicePlan]
	Subscriptions *session.Collection[int, SoftwareSubscription]
	Goals         *session.Collection[int, DeviceTypeGoal]
	Media         *session.Collection[string, DeviceTypeMedia]
	Notifications *session.Collection[int64, Notification]
	Parameters    *session.Collection[string, RuleComponentParameter]
	Questions     *session.Collection[string, QuestionCollection]
	Devices       *session.Collection[DeviceKey, Device]
}

// Register creates every collection on s. It panics if one is already
// registered.
func Register(s *session.Session) *Collections {
	return &Collections{
		Plans:         session.Register(s, ServicePlans, ServicePlanTable, ServicePlanKey),
		Subscriptions: session.Register(s, SoftwareSubscriptions, SoftwareSubscriptionTable, SoftwareSubscriptionKey),
		Goals:         session.Register(s, DeviceTypeGoals, DeviceTypeGoalTable, DeviceTypeGoalKey),
		Media:         session.Register(s, DeviceTypeMediaFiles, DeviceTypeMediaTable, DeviceTypeMediaKey),
		Notifications: session.Register(s, Notifications, NotificationTable, NotificationKey),
		Parameters:    session.Register(s, RuleComponentParameters, RuleComponentParameterTable, RuleComponentParameterKey),
		Questions:     session.Register(s, QuestionCollections, QuestionCollectionTable, QuestionCollectionKey),
		Devices:       session.Register(s, Devices, DeviceTable, DeviceKeyOf),
	}
}

// SubscriptionPlan resolves the plan a subscription points to.
func (c *Collections) SubscriptionPlan(sub *SoftwareSubscription) (*ServicePlan, bool) {
	ref, ok := sub.Plan.Get()
	if !ok {
		return nil, false
	}
	return c.Plans.Resolve(ref)
}

// DeviceGoal resolves the goal a device is installed for.
func (c *Collections) DeviceGoal(d *Device) (*DeviceTypeGoal, bool) {
	ref, ok := d.Goal.Get()
	if !ok {
		return nil, false
	}
	return c.Goals.Resolve(ref)
}

var catalog = map[string]model.Schema{
	ServicePlans:            ServicePlanTable.Schema(),
	SoftwareSubscriptions:   SoftwareSubscriptionTable.Schema(),
	DeviceTypeGoals:         DeviceTypeGoalTable.Schema(),
	DeviceTypeMediaFiles:    DeviceTypeMediaTable.Schema(),
	Notifications:           NotificationTable.Schema(),
	RuleComponentParameters: RuleComponentParameterTable.Schema(),
	QuestionCollections:     QuestionCollectionTable.Schema(),
	Devices:                 DeviceTable.Schema(),
}

// Schema returns the field layout of the named collection.
func Schema(collection string) (model.Schema, bool) {
	s, ok := catalog[collection]
	return s, ok
}

// Names returns the collection names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
