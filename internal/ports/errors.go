package ports

import "errors"

// ErrDialogAborted is returned by a DialogProvider when the user cancels.
var ErrDialogAborted = errors.New("dialog aborted")
