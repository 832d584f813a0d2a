// Package telemetry publishes service metrics to AWS CloudWatch.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"fmrwatch/internal/types"
)

// Metric names and dimension keys. All components use these constants.
const (
	MetricAPILatency    = "APILatency"
	MetricAPIRequest    = "APIRequest"
	MetricProjectStatus = "ProjectStatusCount"

	DimEndpoint = "Endpoint"
	DimMethod   = "Method"
	DimStatus   = "Status"
	DimProject  = "ProjectStatus"
)

// putMetricTimeout bounds each PutMetricData call so a slow CloudWatch
// endpoint never blocks the request path.
const putMetricTimeout = 5 * time.Second

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchCollector emits API request metrics and project status gauges to
// CloudWatch. Emission failures are logged and swallowed; telemetry never
// fails a request.
type CloudWatchCollector struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// NewCloudWatchCollector creates a collector publishing to the given
// namespace.
func NewCloudWatchCollector(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatchCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudWatchCollector{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordRequest emits one request count and one latency datum per completed
// HTTP request.
func (c *CloudWatchCollector) RecordRequest(method, endpoint, status string, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), putMetricTimeout)
	defer cancel()

	dims := []cwtypes.Dimension{
		{Name: aws.String(DimMethod), Value: aws.String(method)},
		{Name: aws.String(DimEndpoint), Value: aws.String(endpoint)},
		{Name: aws.String(DimStatus), Value: aws.String(status)},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(MetricAPIRequest),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: dims,
			},
			{
				MetricName: aws.String(MetricAPILatency),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: dims,
			},
		},
	}

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		c.logger.Error("failed to record request metric",
			"error", err.Error(),
			"method", method,
			"endpoint", endpoint,
		)
	}
}

// RecordStatusCounts emits one gauge datum per project status. Used by the
// periodic rollup job so dashboards can chart the status distribution over
// time.
func (c *CloudWatchCollector) RecordStatusCounts(ctx context.Context, counts []types.StatusCount) {
	ctx, cancel := context.WithTimeout(ctx, putMetricTimeout)
	defer cancel()

	data := make([]cwtypes.MetricDatum, 0, len(counts))
	for _, sc := range counts {
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String(MetricProjectStatus),
			Value:      aws.Float64(float64(sc.Count)),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: []cwtypes.Dimension{
				{Name: aws.String(DimProject), Value: aws.String(string(sc.Status))},
			},
		})
	}
	if len(data) == 0 {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(c.namespace),
		MetricData: data,
	}

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		c.logger.Error("failed to record status count metrics", "error", err.Error())
	}
}
