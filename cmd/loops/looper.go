package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/openadmit/openadmit/cmd/loops/recurring"
	"github.com/openadmit/openadmit/cmd/loops/tasks/escalation"
	"github.com/openadmit/openadmit/cmd/loops/tasks/inactivity"
	"github.com/openadmit/openadmit/pkg/domain"
	admdb "github.com/openadmit/openadmit/pkg/domain/admission/db"
	"github.com/openadmit/openadmit/pkg/loop"
)

type LoggerOptions func(*log.Logger) *log.Logger

func byLogger(l *log.Logger, opt ...LoggerOptions) *log.Logger {
	for _, o := range opt {
		l = o(l)
	}
	return l
}

func Copied() LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		return log.New(l.Writer(), l.Prefix(), l.Flags())
	}
}

func WithPrefix(pre string) LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		l.SetPrefix(pre)
		return l
	}
}

// monitor logs the start and end of each cycle of a task.
func monitor[T any](logger *log.Logger, task loop.Task[T]) loop.Task[T] {
	var counter uint64
	return func(ctx context.Context, t T) (ret T, next loop.Next) {
		counter += 1
		timestamp := time.Now()

		logger.Printf("task start: #0x%X: ", counter)

		defer func() {
			logger.Printf(
				"task end: #0x%X (takes %s): %s\n with value = %#v",
				counter, time.Since(timestamp), next, ret,
			)
		}()

		ret, next = task(ctx, t)
		return
	}
}

// Manifest for starting a loop, which determines how the loop should behave.
type LoopManifest struct {
	Type   domain.LoopType
	Policy recurring.Policy
}

func StartLoop(
	ctx context.Context,
	logger *log.Logger,
	database admdb.Database,
	manifest LoopManifest,
) error {
	switch manifest.Type {
	case domain.InactivityLoop:
		return StartInactivityLoop(ctx, logger, database, manifest)
	case domain.EscalationLoop:
		return StartEscalationLoop(ctx, logger, database, manifest)
	default:
		return fmt.Errorf("unknown loop type: %s", manifest.Type)
	}
}

func StartInactivityLoop(
	ctx context.Context,
	logger *log.Logger,
	database admdb.Database,
	manifest LoopManifest,
) error {
	_, err := loop.Start(
		ctx, inactivity.Seed(),
		monitor(
			byLogger(logger, Copied(), WithPrefix("[inactivity loop]")),
			inactivity.Task(database).Applied(manifest.Policy),
		),
		loop.WithTimeout(30*time.Second),
	)
	return err
}

func StartEscalationLoop(
	ctx context.Context,
	logger *log.Logger,
	database admdb.Database,
	manifest LoopManifest,
) error {
	_, err := loop.Start(
		ctx, escalation.Seed(),
		monitor(
			byLogger(logger, Copied(), WithPrefix("[escalation loop]")),
			escalation.Task(database).Applied(manifest.Policy),
		),
		loop.WithTimeout(30*time.Second),
	)
	return err
}
