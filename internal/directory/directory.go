// Package directory discovers EC2 instances managed through the ownership
// tag and resolves their owning control message and lifecycle state.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"svrmgr/internal/common/logger"
)

// NameTagKey is the display-name tag.
const NameTagKey = "Name"

// ErrNotManaged marks an instance that carries no ownership tag.
var ErrNotManaged = errors.New("instance is not managed by any control message")

// EC2API is the subset of the EC2 client the directory needs. The embedded
// SDK paginator interfaces are satisfied by *ec2.Client and by test fakes.
type EC2API interface {
	ec2.DescribeTagsAPIClient
	ec2.DescribeInstanceStatusAPIClient
}

type Directory struct {
	client EC2API
	tagKey string
	log    logger.Logger
}

func New(client EC2API, ownershipTagKey string, log logger.Logger) *Directory {
	return &Directory{
		client: client,
		tagKey: ownershipTagKey,
		log:    log,
	}
}

// OwnershipTagKey returns the tag key binding instances to their message.
func (d *Directory) OwnershipTagKey() string {
	return d.tagKey
}

// ListManaged discovers managed instances by listing ownership and Name tags
// across all result pages and grouping them by instance ID.
func (d *Directory) ListManaged(ctx context.Context) ([]*Instance, error) {
	tagKeys := []string{d.tagKey, NameTagKey}
	input := &ec2.DescribeTagsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("resource-type"), Values: []string{"instance"}},
			{Name: aws.String("key"), Values: tagKeys},
		},
	}

	d.log.Info("listing EC2 instance tags", map[string]interface{}{"keys": tagKeys})

	var order []string
	tagsByInstance := make(map[string]map[string]string)

	paginator := ec2.NewDescribeTagsPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe tags: %w", err)
		}
		for _, tag := range page.Tags {
			id := aws.ToString(tag.ResourceId)
			if tagsByInstance[id] == nil {
				tagsByInstance[id] = make(map[string]string)
				order = append(order, id)
			}
			tagsByInstance[id][aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
	}

	instances := make([]*Instance, 0, len(order))
	for _, id := range order {
		instances = append(instances, &Instance{ID: id, Tags: tagsByInstance[id]})
	}
	return instances, nil
}

// ResolveOwnerMessage returns the message ID recorded in the instance's
// ownership tag. No tag means the instance isn't managed; more than one is
// an integrity fault that must never happen.
func (d *Directory) ResolveOwnerMessage(ctx context.Context, instanceID string) (string, error) {
	d.log.Info("resolving owning message", map[string]interface{}{
		"instanceId": instanceID,
		"tagKey":     d.tagKey,
	})

	out, err := d.client.DescribeTags(ctx, &ec2.DescribeTagsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("resource-id"), Values: []string{instanceID}},
			{Name: aws.String("resource-type"), Values: []string{"instance"}},
			{Name: aws.String("key"), Values: []string{d.tagKey}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("describe tags for %s: %w", instanceID, err)
	}

	switch len(out.Tags) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotManaged, instanceID)
	case 1:
		return aws.ToString(out.Tags[0].Value), nil
	default:
		return "", fmt.Errorf("found multiple %q tags on EC2 instance %s", d.tagKey, instanceID)
	}
}

// RefreshStates batch-queries lifecycle status for the given instances and
// writes each state in place. An input instance missing from the provider's
// response is a contract violation.
func (d *Directory) RefreshStates(ctx context.Context, instances []*Instance) error {
	if len(instances) == 0 {
		return nil
	}

	ids := make([]string, 0, len(instances))
	for _, inst := range instances {
		ids = append(ids, inst.ID)
	}

	d.log.Info("listing EC2 instance status", map[string]interface{}{"count": len(ids)})

	input := &ec2.DescribeInstanceStatusInput{
		InstanceIds:         ids,
		IncludeAllInstances: aws.Bool(true),
	}

	states := make(map[string]InstanceState)
	paginator := ec2.NewDescribeInstanceStatusPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("describe instance status: %w", err)
		}
		for _, status := range page.InstanceStatuses {
			if status.InstanceState != nil {
				states[aws.ToString(status.InstanceId)] = InstanceState(status.InstanceState.Name)
			}
		}
	}

	for _, inst := range instances {
		state, ok := states[inst.ID]
		if !ok {
			return fmt.Errorf("EC2 instance %s missing from status response", inst.ID)
		}
		inst.State = state
	}
	return nil
}
