package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the part of the CloudWatch client the recorder uses.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics records business counters as CloudWatch custom metrics.
// It is used on Lambda, where nothing scrapes /metrics. Puts are synchronous
// so they complete before the execution environment is frozen.
type CloudWatchMetrics struct {
	client    CloudWatchAPI
	namespace string
	dimension types.Dimension
	timeout   time.Duration
	logger    *zap.Logger
}

// NewCloudWatchMetrics creates a recorder publishing under namespace, with
// every datum tagged with the environment.
func NewCloudWatchMetrics(client CloudWatchAPI, namespace, environment string, logger *zap.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		client:    client,
		namespace: namespace,
		dimension: types.Dimension{Name: aws.String("Environment"), Value: aws.String(environment)},
		timeout:   2 * time.Second,
		logger:    logger.Named("CloudWatchMetrics"),
	}
}

func (m *CloudWatchMetrics) DashboardCreated()   { m.count("DashboardsCreated") }
func (m *CloudWatchMetrics) DashboardPublished() { m.count("DashboardsPublished") }

func (m *CloudWatchMetrics) ConcurrencyConflict(resource string) {
	m.count("ConcurrencyConflicts", types.Dimension{Name: aws.String("Resource"), Value: aws.String(resource)})
}

func (m *CloudWatchMetrics) count(name string, dimensions ...types.Dimension) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: aws.String(name),
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(time.Now()),
			Dimensions: append([]types.Dimension{m.dimension}, dimensions...),
		}},
	})
	if err != nil {
		m.logger.Warn("failed to put metric", zap.String("metric", name), zap.Error(err))
	}
}
