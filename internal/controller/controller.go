// Package controller issues start/stop lifecycle commands against EC2.
package controller

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"svrmgr/internal/common/logger"
	"svrmgr/internal/common/metrics"
)

// EC2API is the subset of the EC2 client the controller needs.
type EC2API interface {
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

type Controller struct {
	client EC2API
	log    logger.Logger
}

func New(client EC2API, log logger.Logger) *Controller {
	return &Controller{client: client, log: log}
}

// Start requests a start of the instance. Success means the provider
// accepted the transition request, not that the instance is running.
func (c *Controller) Start(ctx context.Context, instanceID string) error {
	c.log.Info("starting EC2 instance", map[string]interface{}{"instanceId": instanceID})

	_, err := c.client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("start instance %s: %w", instanceID, err)
	}

	metrics.LifecycleCommands.WithLabelValues("start").Inc()
	return nil
}

// Stop requests a stop of the instance.
func (c *Controller) Stop(ctx context.Context, instanceID string) error {
	c.log.Info("stopping EC2 instance", map[string]interface{}{"instanceId": instanceID})

	_, err := c.client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("stop instance %s: %w", instanceID, err)
	}

	metrics.LifecycleCommands.WithLabelValues("stop").Inc()
	return nil
}
