package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes workflow counters to CloudWatch. Emission is
// best-effort; a failed put is logged and dropped.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a CloudWatch-backed metrics publisher.
func NewMetrics(client *cloudwatch.Client, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// CountOperation records one workflow operation for a resource kind.
func (m *Metrics) CountOperation(ctx context.Context, kind, operation string) {
	if m == nil || m.client == nil {
		return
	}
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("WorkflowOperation"),
				Value:      aws.Float64(1),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: []types.Dimension{
					{Name: aws.String("Kind"), Value: aws.String(kind)},
					{Name: aws.String("Operation"), Value: aws.String(operation)},
				},
			},
		},
	})
	if err != nil {
		m.logger.Warn("failed to publish metric",
			zap.String("kind", kind),
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}
