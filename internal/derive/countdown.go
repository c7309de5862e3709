package derive

import (
	"context"
	"fmt"
	"time"
)

// Remaining is the time left until a target, floored to the minute.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (r Remaining) IsZero() bool { return r == Remaining{} }

func (r Remaining) String() string {
	return fmt.Sprintf("%dd %02dh %02dm", r.Days, r.Hours, r.Minutes)
}

// Countdown returns the zero Remaining once target is at or before now.
func Countdown(target, now time.Time) Remaining {
	d := target.Sub(now)
	if d <= 0 {
		return Remaining{}
	}
	return Remaining{
		Days:    int(d / (24 * time.Hour)),
		Hours:   int(d % (24 * time.Hour) / time.Hour),
		Minutes: int(d % time.Hour / time.Minute),
	}
}

// Tick calls fn with the current countdown right away and then on every
// interval until ctx is done or the countdown reaches zero.
func Tick(ctx context.Context, target time.Time, interval time.Duration, fn func(Remaining)) {
	tickWithClock(ctx, target, interval, time.Now, fn)
}

func tickWithClock(ctx context.Context, target time.Time, interval time.Duration, now func() time.Time, fn func(Remaining)) {
	r := Countdown(target, now())
	fn(r)
	if r.IsZero() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r = Countdown(target, now())
			fn(r)
			if r.IsZero() {
				return
			}
		}
	}
}
