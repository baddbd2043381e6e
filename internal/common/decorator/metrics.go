package decorator

import "context"

// MetricsClient is the legacy counter interface the command/query
// decorators record success/failure counts through, independent of the
// OTEL span metrics the tracing decorator emits.
type MetricsClient interface {
	Inc(key string, value int)
}

type commandMetricsDecorator[C any] struct {
	base   CommandHandler[C]
	client MetricsClient
}

func (d commandMetricsDecorator[C]) Handle(ctx context.Context, cmd C) error {
	action := generateActionName(cmd)
	err := d.base.Handle(ctx, cmd)
	d.client.Inc(metricKey(action, err), 1)
	return err
}

type commandResultMetricsDecorator[C any, R any] struct {
	base   CommandHandlerWithResult[C, R]
	client MetricsClient
}

func (d commandResultMetricsDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	action := generateActionName(cmd)
	result, err := d.base.Handle(ctx, cmd)
	d.client.Inc(metricKey(action, err), 1)
	return result, err
}

type queryMetricsDecorator[Q any, R any] struct {
	base   QueryHandler[Q, R]
	client MetricsClient
}

func (d queryMetricsDecorator[Q, R]) Handle(ctx context.Context, q Q) (R, error) {
	action := generateActionName(q)
	result, err := d.base.Handle(ctx, q)
	d.client.Inc(metricKey(action, err), 1)
	return result, err
}

func metricKey(action string, err error) string {
	if err != nil {
		return action + ".failure"
	}
	return action + ".success"
}
