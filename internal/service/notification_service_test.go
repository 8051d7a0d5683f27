package service

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/petshop-next/internal/noncritical"
	"github.com/petshop-next/internal/queue"

	"github.com/hibiken/asynq"
)

type fakeEnqueuer struct {
	mu       sync.Mutex
	enabled  bool
	err      error
	payloads []queue.PushTokenRegisterPayload
}

func (f *fakeEnqueuer) Enabled() bool { return f.enabled }

func (f *fakeEnqueuer) EnqueuePushTokenRegister(payload queue.PushTokenRegisterPayload, _ ...asynq.Option) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return f.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestRegisterPushTokenRunsInBackgroundWithoutQueue(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewNotificationService(f.client, nil, f.tenants)

	if err := svc.RegisterPushToken("ExponentPushToken[abc]", "iOS"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	waitFor(t, func() bool { return f.mock.PushTokens()["ExponentPushToken[abc]"] == "ios" })
}

func TestRegisterPushTokenFailureIsNonCritical(t *testing.T) {
	f := newServiceFixture(t)
	recorder := &noncritical.Recorder{}
	noncritical.SetReporter(recorder.Record)
	t.Cleanup(func() { noncritical.SetReporter(nil) })

	f.mock.FailNext(http.MethodPost, "/api/push-tokens", http.StatusInternalServerError)
	svc := NewNotificationService(f.client, nil, f.tenants)
	if err := svc.RegisterPushToken("token-1", "android"); err != nil {
		t.Fatalf("push failure must not propagate: %v", err)
	}
	waitFor(t, func() bool { return len(recorder.Failures()) == 1 })
	if failure := recorder.Failures()[0]; !errors.Is(failure, noncritical.ErrNonCritical) || failure.Operation != "push_token_register" {
		t.Fatalf("unexpected failure: %+v", failure)
	}
}

func TestRegisterPushTokenEnqueuesWhenQueueEnabled(t *testing.T) {
	f := newServiceFixture(t)
	recorder := &noncritical.Recorder{}
	noncritical.SetReporter(recorder.Record)
	t.Cleanup(func() { noncritical.SetReporter(nil) })

	q := &fakeEnqueuer{enabled: true, err: errors.New("redis down")}
	svc := NewNotificationService(f.client, q, f.tenants)
	if err := svc.RegisterPushToken(" token-2 ", ""); err != nil {
		t.Fatalf("enqueue failure must not propagate: %v", err)
	}
	if len(q.payloads) != 1 || q.payloads[0].Token != "token-2" || q.payloads[0].TenantID != f.tenant.ID {
		t.Fatalf("payloads = %+v", q.payloads)
	}
	if len(recorder.Failures()) != 1 {
		t.Fatalf("enqueue failure not reported")
	}
	if len(f.mock.PushTokens()) != 0 {
		t.Fatalf("queued registration must not call the backend directly")
	}
}

func TestRegisterPushTokenValidation(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewNotificationService(f.client, nil, f.tenants)
	if err := svc.RegisterPushToken("  ", "ios"); !errors.Is(err, ErrPushTokenInvalid) {
		t.Fatalf("blank token err = %v", err)
	}
	if err := svc.RegisterPushToken("token", "symbian"); !errors.Is(err, ErrPushTokenInvalid) {
		t.Fatalf("bad platform err = %v", err)
	}
}

func TestDeliverSkipsStaleTenant(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewNotificationService(f.client, nil, f.tenants)
	err := svc.Deliver(t.Context(), queue.PushTokenRegisterPayload{Token: "token-3", Platform: "web", TenantID: "other-tenant"})
	if err != nil {
		t.Fatalf("deliver err = %v", err)
	}
	if len(f.mock.PushTokens()) != 0 {
		t.Fatalf("stale tenant payload must be dropped")
	}
}
