// Package lock serializes front-desk mutations per room and per bill.
package lock

import (
	"context"
	"errors"
)

// ErrTimeout is returned when a lock could not be acquired in time. The
// caller may retry; nothing was changed.
var ErrTimeout = errors.New("lock_timeout")

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func()

type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

func RoomKey(room string) string       { return "room:" + room }
func RoomOrdersKey(room string) string { return "orders:room:" + room }
func BillKey(id string) string         { return "bill:" + id }
