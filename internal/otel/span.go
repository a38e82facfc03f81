// Package otel provides span helpers shared by the sync tasks and the create flow.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on threadsync spans.
const (
	AttrOwner       = attribute.Key("github.owner")
	AttrRepo        = attribute.Key("github.repo")
	AttrIssueNumber = attribute.Key("github.issue.number")
	AttrThreadID    = attribute.Key("discord.thread.id")
	AttrTaskName    = attribute.Key("task.name")
	AttrResultCount = attribute.Key("result.count")
)

// IssueAttributes returns the attributes identifying an issue
func IssueAttributes(owner, repo string, number int) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrOwner.String(owner),
		AttrRepo.String(repo),
		AttrIssueNumber.Int(number),
	}
}

// StartSpan starts a new span if the tracer is non-nil, otherwise returns the
// span already in ctx (a no-op span when there is none).
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on the span and marks it failed. The status description
// stays generic; the error text is only kept in the exception event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
