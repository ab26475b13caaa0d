package core

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
)

type AWSCloudWatchClient struct {
	watchService *cloudwatch.CloudWatch
}

var CloudWatchClient = AWSCloudWatchClient{}

func (c *AWSCloudWatchClient) PutMetric(metricName string, unitName string, metricValue float64, namespace string) {
	if c.watchService == nil {
		sess, err := session.NewSession(&aws.Config{Region: aws.String(Config.AWSRegion)})
		if err != nil {
			Warn("create cloudwatch session failed: %v", err)
			return
		}
		c.watchService = cloudwatch.New(sess)
	}
	params := &cloudwatch.PutMetricDataInput{
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Timestamp:  aws.Time(time.Now()),
				Unit:       aws.String(unitName),
				Value:      aws.Float64(metricValue),
			},
		},
		Namespace: aws.String(namespace),
	}

	_, err := c.watchService.PutMetricData(params)
	if err != nil {
		Warn("put cloudwatch metric %v failed: %v", metricName, err)
	}
}
