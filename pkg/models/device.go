package models

import (
	"fmt"
	"time"

	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/opt"
	"github.com/peoplepower/ppsync-go/pkg/store"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// DeviceKey identifies a device. Device ids are only unique within a
// location.
type DeviceKey struct {
	LocationID int
	DeviceID   string
}

func (k DeviceKey) String() string {
	return fmt.Sprintf("%d/%s", k.LocationID, k.DeviceID)
}

// DeviceAlert counts alerts of one type raised by a device.
type DeviceAlert struct {
	Type  opt.Value[string]
	Count opt.Value[int]
}

// Device is a device installed at a location.
type Device struct {
	LocationID           opt.Value[int]
	ID                   opt.Value[string]
	Name                 opt.Value[string]
	Connected            opt.Value[enum.TriState]
	Shared               opt.Value[bool]
	TypeID               opt.Value[int]
	Goal                 opt.Value[store.Ref[int]]
	LastDataReceivedDate opt.Value[time.Time]
	AvailableBytes       opt.Value[int64]
	Alerts               opt.Value[[]*DeviceAlert]
}

// Online reports whether the device is known to be connected.
func (d *Device) Online() bool {
	return d.Connected.Or(enum.TriStateNone) == enum.TriStateTrue
}

// DeviceAlertTable is the field table of DeviceAlert.
var DeviceAlertTable = model.NewTable[DeviceAlert]("deviceAlert",
	model.String("alertType", func(a *DeviceAlert) *opt.Value[string] { return &a.Type }).Identity(),
	model.Int("count", func(a *DeviceAlert) *opt.Value[int] { return &a.Count }),
)

// DeviceTable is the field table of Device.
var DeviceTable = model.NewTable[Device]("device",
	model.Int("locationId", func(d *Device) *opt.Value[int] { return &d.LocationID }).Identity(),
	model.String("id", func(d *Device) *opt.Value[string] { return &d.ID }).Identity(),
	model.String("name", func(d *Device) *opt.Value[string] { return &d.Name }),
	model.TriState("connected", func(d *Device) *opt.Value[enum.TriState] { return &d.Connected }),
	model.Bool("shared", func(d *Device) *opt.Value[bool] { return &d.Shared }),
	model.Int("typeId", func(d *Device) *opt.Value[int] { return &d.TypeID }),
	model.Ref("goalId", func(d *Device) *opt.Value[store.Ref[int]] { return &d.Goal }, wire.ToInt),
	model.Time("lastDataReceivedDate", func(d *Device) *opt.Value[time.Time] { return &d.LastDataReceivedDate }),
	model.Bytes("availableBytes", func(d *Device) *opt.Value[int64] { return &d.AvailableBytes }),
	model.Records("alerts", func(d *Device) *opt.Value[[]*DeviceAlert] { return &d.Alerts }, DeviceAlertTable),
)

// DeviceKeyOf returns the collection key of a device.
func DeviceKeyOf(d *Device) DeviceKey {
	return DeviceKey{LocationID: d.LocationID.Or(0), DeviceID: d.ID.Or("")}
}
