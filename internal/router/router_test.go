package router

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svrmgr/internal/auth"
	"svrmgr/internal/common/httpapi"
	"svrmgr/internal/common/logger"
	"svrmgr/internal/controller"
	"svrmgr/internal/directory"
	"svrmgr/internal/discord"
)

// ==========================
// Test Helper Functions
// ==========================

const (
	tagKey    = "svrmgr-message-id"
	messageID = "M1"
)

// fakeEC2 models a small fleet: ownership/Name tags plus a lifecycle state
// per instance. Start/Stop record the command and flip the observed state,
// standing in for the provider accepting the transition.
type fakeEC2 struct {
	tags   map[string]map[string]string
	states map[string]ec2types.InstanceStateName

	started []string
	stopped []string
}

func (f *fakeEC2) DescribeTags(_ context.Context, in *ec2.DescribeTagsInput, _ ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error) {
	var resourceID, keyFilter []string
	for _, filter := range in.Filters {
		switch aws.ToString(filter.Name) {
		case "resource-id":
			resourceID = filter.Values
		case "key":
			keyFilter = filter.Values
		}
	}

	keyWanted := func(key string) bool {
		for _, k := range keyFilter {
			if k == key {
				return true
			}
		}
		return false
	}

	out := &ec2.DescribeTagsOutput{}
	for id, tags := range f.tags {
		if len(resourceID) > 0 && resourceID[0] != id {
			continue
		}
		for key, value := range tags {
			if !keyWanted(key) {
				continue
			}
			out.Tags = append(out.Tags, ec2types.TagDescription{
				ResourceId:   aws.String(id),
				ResourceType: ec2types.ResourceTypeInstance,
				Key:          aws.String(key),
				Value:        aws.String(value),
			})
		}
	}
	return out, nil
}

func (f *fakeEC2) DescribeInstanceStatus(_ context.Context, in *ec2.DescribeInstanceStatusInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstanceStatusOutput, error) {
	out := &ec2.DescribeInstanceStatusOutput{}
	for _, id := range in.InstanceIds {
		state, ok := f.states[id]
		if !ok {
			continue
		}
		out.InstanceStatuses = append(out.InstanceStatuses, ec2types.InstanceStatus{
			InstanceId:    aws.String(id),
			InstanceState: &ec2types.InstanceState{Name: state},
		})
	}
	return out, nil
}

func (f *fakeEC2) StartInstances(_ context.Context, in *ec2.StartInstancesInput, _ ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	f.started = append(f.started, in.InstanceIds...)
	for _, id := range in.InstanceIds {
		f.states[id] = ec2types.InstanceStateNamePending
	}
	return &ec2.StartInstancesOutput{}, nil
}

func (f *fakeEC2) StopInstances(_ context.Context, in *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	f.stopped = append(f.stopped, in.InstanceIds...)
	for _, id := range in.InstanceIds {
		f.states[id] = ec2types.InstanceStateNameStopping
	}
	return &ec2.StopInstancesOutput{}, nil
}

func newFleet() *fakeEC2 {
	return &fakeEC2{
		tags: map[string]map[string]string{
			"i-abc": {tagKey: messageID, "Name": "game"},
		},
		states: map[string]ec2types.InstanceStateName{
			"i-abc": ec2types.InstanceStateNameRunning,
		},
	}
}

func newTestRouter(t *testing.T, client *fakeEC2) *Router {
	log := logger.NewTestLogger(t)

	verifier, err := auth.NewVerifier("", log)
	require.NoError(t, err)

	return New(
		verifier,
		directory.New(client, tagKey, log),
		controller.New(client, log),
		log,
	)
}

func componentRequest(msgID, customID string) *httpapi.Request {
	body := fmt.Sprintf(`{"type":3,"message":{"id":%q},"data":{"custom_id":%q}}`, msgID, customID)
	return &httpapi.Request{
		Method:  "POST",
		Path:    "/",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    []byte(body),
	}
}

func decodeUpdate(t *testing.T, resp *httpapi.Response) *discord.InteractionResponse {
	t.Helper()

	require.Equal(t, 200, resp.StatusCode)
	var update discord.InteractionResponse
	require.NoError(t, json.Unmarshal(resp.Body, &update))
	return &update
}

func customIDs(update *discord.InteractionResponse) []string {
	ids := make([]string, 0, len(update.Data.Components))
	for _, row := range update.Data.Components {
		for _, button := range row.Components {
			ids = append(ids, button.CustomID)
		}
	}
	return ids
}

func assertHTTPError(t *testing.T, err error, status int, contains string) {
	t.Helper()

	var httpErr *httpapi.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, contains)
}

// ==========================
// Type dispatch
// ==========================

func TestHandle_PingReturnsPong(t *testing.T) {
	rt := newTestRouter(t, newFleet())

	resp, err := rt.Handle(context.Background(), &httpapi.Request{
		Method:  "POST",
		Path:    "/",
		Headers: map[string]string{},
		Body:    []byte(`{"type":1}`),
	})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"type":1}`, string(resp.Body))
}

func TestHandle_ValidationFailures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"malformed JSON", `{"type":`, "not an object"},
		{"non-object body", `[1,2,3]`, "not an object"},
		{"missing type", `{}`, "missing type"},
		{"unsupported interaction type", `{"type":2}`, "Unsupported interaction type"},
		{"missing message ID", `{"type":3,"data":{"custom_id":"refresh"}}`, "missing message ID"},
		{"missing custom ID", `{"type":3,"message":{"id":"M1"}}`, "missing component custom ID"},
		{"unknown action", `{"type":3,"message":{"id":"M1"},"data":{"custom_id":"reboot:i-abc"}}`, "Unknown component custom ID"},
		{"start without target", `{"type":3,"message":{"id":"M1"},"data":{"custom_id":"start"}}`, "Unknown component custom ID"},
		{"stop with empty target", `{"type":3,"message":{"id":"M1"},"data":{"custom_id":"stop:"}}`, "Unknown component custom ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFleet()
			rt := newTestRouter(t, client)

			_, err := rt.Handle(context.Background(), &httpapi.Request{
				Method:  "POST",
				Path:    "/",
				Headers: map[string]string{},
				Body:    []byte(tt.body),
			})

			assertHTTPError(t, err, 400, tt.contains)
			assert.Empty(t, client.started)
			assert.Empty(t, client.stopped)
		})
	}
}

func TestHandle_MissingBody(t *testing.T) {
	rt := newTestRouter(t, newFleet())

	_, err := rt.Handle(context.Background(), &httpapi.Request{
		Method:  "POST",
		Path:    "/",
		Headers: map[string]string{},
	})
	assertHTTPError(t, err, 400, "not an object")
}

// ==========================
// Authorization
// ==========================

func TestHandle_UnmanagedInstanceForbidden(t *testing.T) {
	client := newFleet()
	rt := newTestRouter(t, client)

	_, err := rt.Handle(context.Background(), componentRequest(messageID, "stop:i-unknown"))

	assertHTTPError(t, err, 403, "doesn't exist or isn't managed")
	assert.Empty(t, client.stopped, "no lifecycle call may be issued")
}

func TestHandle_ForeignMessageForbidden(t *testing.T) {
	client := newFleet()
	client.tags["i-abc"][tagKey] = "M2"
	rt := newTestRouter(t, client)

	_, err := rt.Handle(context.Background(), componentRequest(messageID, "stop:i-abc"))

	assertHTTPError(t, err, 403, "isn't managed by this message")
	assert.Empty(t, client.stopped)
	assert.Equal(t, ec2types.InstanceStateNameRunning, client.states["i-abc"], "instance state unchanged")
}

// ==========================
// Mutations and re-render
// ==========================

func TestHandle_StopAuthorizedInstance(t *testing.T) {
	client := newFleet()
	rt := newTestRouter(t, client)

	resp, err := rt.Handle(context.Background(), componentRequest(messageID, "stop:i-abc"))
	require.NoError(t, err)

	assert.Equal(t, []string{"i-abc"}, client.stopped)

	// Immediately after the stop the instance is observed as stopping, so
	// the grid renders the neutral row, not a start control yet.
	update := decodeUpdate(t, resp)
	assert.Equal(t, discord.ResponseTypeUpdateMessage, update.Type)
	assert.Equal(t, []string{"refresh", "refresh:i-abc"}, customIDs(update))
}

func TestHandle_StartStopRoundTrip(t *testing.T) {
	client := newFleet()
	client.states["i-abc"] = ec2types.InstanceStateNameStopped
	rt := newTestRouter(t, client)

	// A stopped instance renders a start control.
	resp, err := rt.Handle(context.Background(), componentRequest(messageID, "refresh"))
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh", "start:i-abc"}, customIDs(decodeUpdate(t, resp)))

	// Pressing it issues the start command.
	_, err = rt.Handle(context.Background(), componentRequest(messageID, "start:i-abc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"i-abc"}, client.started)

	// Once the instance is observed running, the same control row flips to
	// a stop control for the same instance.
	client.states["i-abc"] = ec2types.InstanceStateNameRunning
	resp, err = rt.Handle(context.Background(), componentRequest(messageID, "refresh"))
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh", "stop:i-abc"}, customIDs(decodeUpdate(t, resp)))
}

func TestHandle_RefreshTargetFormDoesNotMutate(t *testing.T) {
	client := newFleet()
	rt := newTestRouter(t, client)

	resp, err := rt.Handle(context.Background(), componentRequest(messageID, "refresh:i-abc"))
	require.NoError(t, err)

	assert.Empty(t, client.started)
	assert.Empty(t, client.stopped)
	assert.Equal(t, []string{"refresh", "stop:i-abc"}, customIDs(decodeUpdate(t, resp)))
}

func TestHandle_RenderFiltersAndSortsByDisplayName(t *testing.T) {
	client := &fakeEC2{
		tags: map[string]map[string]string{
			"i-bravo":    {tagKey: messageID, "Name": "bravo"},
			"i-alpha":    {tagKey: messageID, "Name": "alpha"},
			"i-nameless": {tagKey: messageID},
			"i-foreign":  {tagKey: "M2", "Name": "aardvark"},
		},
		states: map[string]ec2types.InstanceStateName{
			"i-bravo":    ec2types.InstanceStateNameRunning,
			"i-alpha":    ec2types.InstanceStateNameStopped,
			"i-nameless": ec2types.InstanceStateNameRunning,
			"i-foreign":  ec2types.InstanceStateNameRunning,
		},
	}
	rt := newTestRouter(t, client)

	resp, err := rt.Handle(context.Background(), componentRequest(messageID, "refresh"))
	require.NoError(t, err)

	// Sorted by display name with the raw ID as fallback; the foreign
	// message's instance never appears.
	update := decodeUpdate(t, resp)
	assert.Equal(t, []string{"refresh", "start:i-alpha", "stop:i-bravo", "stop:i-nameless"}, customIDs(update))
}

func TestHandle_RenderIdempotent(t *testing.T) {
	client := newFleet()
	rt := newTestRouter(t, client)

	first, err := rt.Handle(context.Background(), componentRequest(messageID, "refresh"))
	require.NoError(t, err)
	second, err := rt.Handle(context.Background(), componentRequest(messageID, "refresh"))
	require.NoError(t, err)

	assert.Equal(t, first.Body, second.Body)
}

// ==========================
// Authentication boundary
// ==========================

func TestHandle_UnsignedRequestRejectedWhenKeyConfigured(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	verifier, err := auth.NewVerifier(hex.EncodeToString(pub), log)
	require.NoError(t, err)

	client := newFleet()
	rt := New(verifier, directory.New(client, tagKey, log), controller.New(client, log), log)

	req := componentRequest(messageID, "refresh")
	_, err = rt.Handle(context.Background(), req)
	assertHTTPError(t, err, 401, "signature")

	// The same request with a valid signature goes through.
	timestamp := strconv.FormatInt(1700000000, 10)
	signature := ed25519.Sign(priv, append([]byte(timestamp), req.Body...))
	req.Headers["X-Signature-Ed25519"] = hex.EncodeToString(signature)
	req.Headers["X-Signature-Timestamp"] = timestamp

	resp, err := rt.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
