package mlog

import (
	"fmt"

	"github.com/dogmatiq/dodeca/logging"
)

// LogEnqueue logs a message indicating that an operation has been added to the
// queue.
func LogEnqueue(
	log logging.Logger,
	id, deviceID, opType string,
	depth int,
) {
	logging.LogString(
		log,
		String(
			[]IconWithLabel{
				OperationIDIcon.WithID(id),
				DeviceIDIcon.WithLabel("%s", deviceID),
			},
			[]Icon{
				EnqueueIcon,
				"",
			},
			opType,
			fmt.Sprintf("queue depth %d", depth),
		),
	)
}

// LogUpload logs a debug message indicating that an operation has been
// uploaded.
func LogUpload(
	log logging.Logger,
	id, deviceID, opType string,
	index, total int,
) {
	if !logging.IsDebug(log) {
		return
	}

	logging.Debug(
		log,
		"%s",
		String(
			[]IconWithLabel{
				OperationIDIcon.WithID(id),
				DeviceIDIcon.WithLabel("%s", deviceID),
			},
			[]Icon{
				UploadIcon,
				"",
			},
			opType,
			fmt.Sprintf("uploaded %d of %d", index+1, total),
		),
	)
}

// LogUploadError logs a message indicating that an operation could not be
// uploaded.
func LogUploadError(
	log logging.Logger,
	id, deviceID, opType string,
	cause error,
) {
	logging.LogString(
		log,
		String(
			[]IconWithLabel{
				OperationIDIcon.WithID(id),
				DeviceIDIcon.WithLabel("%s", deviceID),
			},
			[]Icon{
				UploadErrorIcon,
				ErrorIcon,
			},
			opType,
			cause.Error(),
			"operation remains queued",
		),
	)
}

// LogConnectivity logs a message indicating that network connectivity has
// changed.
func LogConnectivity(
	log logging.Logger,
	online bool,
	depth int,
) {
	state := "offline"
	if online {
		state = "online"
	}

	logging.LogString(
		log,
		String(
			nil,
			[]Icon{
				SystemIcon,
				ConnectivityIcon(online),
			},
			state,
			fmt.Sprintf("queue depth %d", depth),
		),
	)
}

// LogSystem logs an informational message about the queue manager itself.
func LogSystem(
	log logging.Logger,
	f string, v ...interface{},
) {
	logging.LogString(
		log,
		String(
			nil,
			[]Icon{
				SystemIcon,
				"",
			},
			fmt.Sprintf(f, v...),
		),
	)
}

// LogSystemError logs an error about the queue manager itself.
func LogSystemError(
	log logging.Logger,
	cause error,
	f string, v ...interface{},
) {
	logging.LogString(
		log,
		String(
			nil,
			[]Icon{
				SystemIcon,
				ErrorIcon,
			},
			fmt.Sprintf(f, v...),
			cause.Error(),
		),
	)
}
