package physics

import "errors"

// ErrNotInitialized is returned by collider accessors used before the
// collider was configured, or before OnInit created its body.
var ErrNotInitialized = errors.New("collider is not initialized")
