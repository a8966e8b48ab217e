package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lodgeroll/membership/internal/core/ports"
)

// RefreshResult reports the outcome of each concurrent load. A failed load
// leaves its cache unchanged.
type RefreshResult struct {
	Members    int   `json:"members"`
	Events     int   `json:"events"`
	Attendance bool  `json:"attendance_loaded"`
	MembersErr error `json:"-"`
	EventsErr  error `json:"-"`
	LoadErr    error `json:"-"`
}

// Err returns the first load error, if any.
func (r RefreshResult) Err() error {
	for _, err := range []error{r.MembersErr, r.EventsErr, r.LoadErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Refresher reloads the directory, the event list and the attendance ledger
// concurrently.
type Refresher struct {
	directory  ports.DirectoryService
	events     ports.EventCatalog
	attendance ports.AttendanceLedger
	log        zerolog.Logger
}

func NewRefresher(directory ports.DirectoryService, events ports.EventCatalog, attendance ports.AttendanceLedger, log zerolog.Logger) *Refresher {
	return &Refresher{directory: directory, events: events, attendance: attendance, log: log}
}

// Refresh runs all loads to completion. One failing load does not cancel the
// others; each error is reported separately in the result.
func (r *Refresher) Refresh(ctx context.Context) RefreshResult {
	var (
		res RefreshResult
		g   errgroup.Group
	)

	g.Go(func() error {
		members, err := r.directory.LoadAll(ctx)
		res.Members, res.MembersErr = len(members), err
		return nil
	})
	g.Go(func() error {
		events, err := r.events.LoadAll(ctx)
		res.Events, res.EventsErr = len(events), err
		return nil
	})
	g.Go(func() error {
		res.LoadErr = r.attendance.Load(ctx)
		res.Attendance = res.LoadErr == nil
		return nil
	})
	_ = g.Wait()

	if err := res.Err(); err != nil {
		r.log.Warn().Err(err).Msg("refresh completed with errors")
	} else {
		r.log.Info().Int("members", res.Members).Int("events", res.Events).Msg("refresh completed")
	}
	return res
}
