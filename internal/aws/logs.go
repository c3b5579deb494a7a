package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

const (
	// PutLogEvents limits: 10,000 events and 1 MiB per call, where each event
	// costs its message size plus 26 bytes.
	maxBatchEvents = 10000
	maxBatchBytes  = 1 << 20
	eventOverhead  = 26

	maxPendingEvents = 20000
	logsPutTimeout   = 10 * time.Second
)

type cloudWatchLogsAPI interface {
	CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// LogsWriter is a zapcore.WriteSyncer that buffers log lines and ships them
// to a CloudWatch Logs stream. Write never blocks on the network; lines go
// out on Sync, which Run calls periodically.
type LogsWriter struct {
	client cloudWatchLogsAPI
	group  string
	stream string
	now    func() time.Time

	mu      sync.Mutex
	pending []types.InputLogEvent
	dropped int
}

// NewLogsWriter creates the log group (if missing) and a stream named after
// serviceName and the process start time.
func NewLogsWriter(ctx context.Context, cfg sdkaws.Config, group, serviceName string) (*LogsWriter, error) {
	stream := fmt.Sprintf("%s-%d", serviceName, time.Now().Unix())
	w := newLogsWriter(cloudwatchlogs.NewFromConfig(cfg), group, stream)
	if err := w.ensureStream(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func newLogsWriter(api cloudWatchLogsAPI, group, stream string) *LogsWriter {
	return &LogsWriter{client: api, group: group, stream: stream, now: time.Now}
}

func (w *LogsWriter) ensureStream(ctx context.Context) error {
	_, err := w.client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: sdkaws.String(w.group),
	})
	if err != nil && !alreadyExists(err) {
		return fmt.Errorf("failed to create log group %s: %w", w.group, err)
	}
	_, err = w.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  sdkaws.String(w.group),
		LogStreamName: sdkaws.String(w.stream),
	})
	if err != nil && !alreadyExists(err) {
		return fmt.Errorf("failed to create log stream %s: %w", w.stream, err)
	}
	return nil
}

func alreadyExists(err error) bool {
	var exists *types.ResourceAlreadyExistsException
	return errors.As(err, &exists)
}

// Write queues one encoded log entry. When the queue is full the entry is
// dropped and counted.
func (w *LogsWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg == "" {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) >= maxPendingEvents {
		w.dropped++
		return len(p), nil
	}
	w.pending = append(w.pending, types.InputLogEvent{
		Message:   sdkaws.String(msg),
		Timestamp: sdkaws.Int64(w.now().UnixMilli()),
	})
	return len(p), nil
}

// Sync sends every queued entry. Entries from a failed call are discarded so
// a broken sink cannot grow the queue without bound.
func (w *LogsWriter) Sync() error {
	w.mu.Lock()
	events := w.pending
	dropped := w.dropped
	w.pending, w.dropped = nil, 0
	w.mu.Unlock()

	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "cloudwatch logs: dropped %d entries, queue full\n", dropped)
	}

	ctx, cancel := context.WithTimeout(context.Background(), logsPutTimeout)
	defer cancel()
	for len(events) > 0 {
		n := batchLen(events)
		_, err := w.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
			LogGroupName:  sdkaws.String(w.group),
			LogStreamName: sdkaws.String(w.stream),
			LogEvents:     events[:n],
		})
		if err != nil {
			// zap is the caller here, so report on stderr.
			fmt.Fprintf(os.Stderr, "cloudwatch logs write error: %v\n", err)
			return fmt.Errorf("failed to put log events: %w", err)
		}
		events = events[n:]
	}
	return nil
}

// batchLen returns how many leading events fit in one PutLogEvents call.
func batchLen(events []types.InputLogEvent) int {
	size := 0
	for i, e := range events {
		size += len(sdkaws.ToString(e.Message)) + eventOverhead
		if i == maxBatchEvents || (size > maxBatchBytes && i > 0) {
			return i
		}
	}
	return len(events)
}

// Run flushes every interval until ctx is done, then flushes once more.
func (w *LogsWriter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = w.Sync()
			return
		case <-ticker.C:
			_ = w.Sync()
		}
	}
}
