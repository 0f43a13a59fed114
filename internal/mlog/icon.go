package mlog

import (
	"fmt"
	"io"

	"github.com/dogmatiq/iago/must"
)

const (
	// OperationIDIcon is the icon shown directly before an operation ID. It is
	// an "equals sign", indicating that this operation "has exactly" the
	// displayed ID.
	OperationIDIcon Icon = "="

	// DeviceIDIcon is the icon shown directly before a device ID. It is the
	// mathematical "member of set" symbol, indicating that the operation
	// belongs to the set of operations recorded by the displayed device.
	DeviceIDIcon Icon = "⋲"

	// EnqueueIcon is the icon shown to indicate that an operation is being
	// added to the queue. It is a downward pointing arrow, as the operation is
	// "stored" on the device.
	EnqueueIcon Icon = "▼"

	// UploadIcon is the icon shown to indicate that an operation is being
	// uploaded. It is an upward pointing arrow, as the operation leaves the
	// device.
	UploadIcon Icon = "▲"

	// UploadErrorIcon is a variant of UploadIcon used when there is an error
	// condition. It is an hollow version of the regular upload icon,
	// indicating that the requirement remains "unfulfilled".
	UploadErrorIcon Icon = "△"

	// ErrorIcon is the icon shown when logging information about an error.
	// It is a heavy cross, indicating a failure.
	ErrorIcon Icon = "✖"

	// OnlineIcon is the icon shown when a log message relates to a change in
	// network connectivity. It is a pair of opposing arrows, representing
	// two-way communication.
	OnlineIcon Icon = "⇅"

	// SystemIcon is an icon shown when a log message relates to the internals of
	// the queue manager. It is a sprocket, representing the inner workings of
	// the machine.
	SystemIcon Icon = "⚙"

	// SeparatorIcon is an icon used to separate strings of unrelated text inside a
	// log message. It is a large bullet, intended to have a large visual impact.
	SeparatorIcon Icon = "●"
)

// Icon is a unicode symbol used as an icon in log messages.
type Icon string

func (i Icon) String() string {
	return string(i)
}

// WriteTo writes a string representation of the icon to w.
// If i is the zero-value, a single space is rendered.
func (i Icon) WriteTo(w io.Writer) (int64, error) {
	s := i.String()
	if i == "" {
		s = " "
	}

	n, err := io.WriteString(w, s)
	return int64(n), err
}

// WithLabel return an IconWithLabel containing this icon and the given label.
func (i Icon) WithLabel(f string, v ...interface{}) IconWithLabel {
	return IconWithLabel{
		i,
		formatLabel(fmt.Sprintf(f, v...)),
	}
}

// WithID return an IconWithLabel containing this icon and an ID as its label.
//
// The id is formatted using FormatID().
func (i Icon) WithID(id string) IconWithLabel {
	return i.WithLabel("%s", FormatID(id))
}

// IconWithLabel is a container for an icon and its associated text label.
type IconWithLabel struct {
	Icon  Icon
	Label string
}

func (i IconWithLabel) String() string {
	return i.Icon.String() + " " + i.Label
}

// WriteTo writes a string representation of the icon and its label to w.
func (i IconWithLabel) WriteTo(w io.Writer) (_ int64, err error) {
	defer must.Recover(&err)

	n := must.WriteTo(w, i.Icon)
	n += must.WriteString(w, " ")
	n += must.WriteString(w, i.Label)

	return int64(n), err
}

// formatLabel formats a label for display.
func formatLabel(label string) string {
	if label == "" {
		return "-"
	}

	return label
}

// ConnectivityIcon returns the icon to use for a connectivity transition.
func ConnectivityIcon(online bool) Icon {
	if online {
		return OnlineIcon
	}

	return ErrorIcon
}
