package copier

import "errors"

var errNoClipboard = errors.New("no clipboard configured")
