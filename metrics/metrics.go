// Package metrics publishes operational gauges and counters to CloudWatch.
// file: metrics/metrics.go
package metrics

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"zerosync-web/logger"
	"zerosync-web/models"
)

// Publisher sends a single metric datum.
type Publisher interface {
	Publish(metricName string, value float64, unit string, dimensions map[string]string)
}

// NoopPublisher drops everything. Used when METRICS_ENABLED is false.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, float64, string, map[string]string) {}

// CloudWatchPublisher reuses one client for all calls. Publish does not block
// the caller.
type CloudWatchPublisher struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	now       func() time.Time
}

// NewCloudWatchPublisher builds a client from the default AWS credential chain.
func NewCloudWatchPublisher(namespace string) (*CloudWatchPublisher, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return &CloudWatchPublisher{
		client:    cloudwatch.New(sess),
		namespace: namespace,
		now:       time.Now,
	}, nil
}

func (p *CloudWatchPublisher) Publish(metricName string, value float64, unit string, dimensions map[string]string) {
	go p.put(metricName, value, unit, dimensions)
}

func (p *CloudWatchPublisher) put(metricName string, value float64, unit string, dimensions map[string]string) {
	dims := make([]*cloudwatch.Dimension, 0, len(dimensions))
	for name, v := range dimensions {
		dims = append(dims, &cloudwatch.Dimension{
			Name:  aws.String(name),
			Value: aws.String(v),
		})
	}

	_, err := p.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(p.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: dims,
				Timestamp:  aws.Time(p.now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	})
	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}

// PublishActiveVisitors pushes the number of visitors with tracked session state.
func PublishActiveVisitors(p Publisher, count int) {
	p.Publish("ActiveVisitors", float64(count), cloudwatch.StandardUnitCount, nil)
}

// PublishWebsocketConnections pushes the open websocket count.
func PublishWebsocketConnections(p Publisher, count int) {
	p.Publish("WebsocketConnections", float64(count), cloudwatch.StandardUnitCount, nil)
}

// PublishLogin counts a login transition (started, completed, cancelled, logout).
func PublishLogin(p Publisher, stage string) {
	p.Publish("LoginTransitions", 1, cloudwatch.StandardUnitCount, map[string]string{"Stage": stage})
}

// PublishCurrencySelection counts a display currency change.
func PublishCurrencySelection(p Publisher, c models.Currency) {
	p.Publish("CurrencySelections", 1, cloudwatch.StandardUnitCount, map[string]string{"Currency": c.Code()})
}

// PublishApplication counts a whitelist application by outcome.
func PublishApplication(p Publisher, accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	p.Publish("WhitelistApplications", 1, cloudwatch.StandardUnitCount, map[string]string{"Outcome": outcome})
}
