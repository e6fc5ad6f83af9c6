package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svrmgr/internal/common/logger"
)

type fakeEC2 struct {
	started []string
	stopped []string
	err     error
}

func (f *fakeEC2) StartInstances(_ context.Context, in *ec2.StartInstancesInput, _ ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.started = append(f.started, in.InstanceIds...)
	return &ec2.StartInstancesOutput{}, nil
}

func (f *fakeEC2) StopInstances(_ context.Context, in *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.stopped = append(f.stopped, in.InstanceIds...)
	return &ec2.StopInstancesOutput{}, nil
}

func TestController_Start(t *testing.T) {
	client := &fakeEC2{}
	ctrl := New(client, logger.NewTestLogger(t))

	require.NoError(t, ctrl.Start(context.Background(), "i-abc"))
	assert.Equal(t, []string{"i-abc"}, client.started)
}

func TestController_Stop(t *testing.T) {
	client := &fakeEC2{}
	ctrl := New(client, logger.NewTestLogger(t))

	require.NoError(t, ctrl.Stop(context.Background(), "i-abc"))
	assert.Equal(t, []string{"i-abc"}, client.stopped)
}

func TestController_ProviderErrorIsWrapped(t *testing.T) {
	client := &fakeEC2{err: errors.New("IncorrectInstanceState")}
	ctrl := New(client, logger.NewTestLogger(t))

	err := ctrl.Start(context.Background(), "i-abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i-abc")
	assert.Contains(t, err.Error(), "IncorrectInstanceState")
}
