package locationfakes

import (
	"context"
	"sync"

	"github.com/iceinventory/partner-core/location"
)

var (
	_ location.Positioner     = (*FakePositioner)(nil)
	_ location.Pusher         = (*FakePusher)(nil)
	_ location.IdentitySource = (*FakeIdentity)(nil)
)

// FakePositioner returns a fixed sample, or an error when set.
type FakePositioner struct {
	lock   sync.Mutex
	sample location.Sample
	err    error
	calls  int
}

func NewFakePositioner(sample location.Sample) *FakePositioner {
	return &FakePositioner{sample: sample}
}

func (f *FakePositioner) Position(context.Context) (location.Sample, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls++
	if f.err != nil {
		return location.Sample{}, f.err
	}
	return f.sample, nil
}

// Calls returns how many times the position was sampled.
func (f *FakePositioner) Calls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

// SetSample replaces the canned reading.
func (f *FakePositioner) SetSample(sample location.Sample) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.sample = sample
}

// SetErr makes subsequent readings fail.
func (f *FakePositioner) SetErr(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.err = err
}

// FakePusher records pushed samples and can fail with a canned error.
type FakePusher struct {
	lock    sync.Mutex
	pushes  []location.Sample
	err     error
	blockCh chan struct{}
}

func NewFakePusher() *FakePusher {
	return &FakePusher{}
}

func (f *FakePusher) PushLocation(_ context.Context, _ string, lat, lng float64) error {
	f.lock.Lock()
	block := f.blockCh
	err := f.err
	if err == nil {
		f.pushes = append(f.pushes, location.Sample{Latitude: lat, Longitude: lng})
	}
	f.lock.Unlock()
	if block != nil {
		<-block
	}
	return err
}

// Pushes returns a copy of the recorded samples.
func (f *FakePusher) Pushes() []location.Sample {
	f.lock.Lock()
	defer f.lock.Unlock()
	out := make([]location.Sample, len(f.pushes))
	copy(out, f.pushes)
	return out
}

// SetErr makes subsequent pushes fail.
func (f *FakePusher) SetErr(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.err = err
}

// Block makes pushes hang until Unblock is called, to simulate a slow
// network call spanning several ticks.
func (f *FakePusher) Block() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.blockCh = make(chan struct{})
}

func (f *FakePusher) Unblock() {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.blockCh != nil {
		close(f.blockCh)
		f.blockCh = nil
	}
}

// FakeIdentity resolves a fixed partner ID.
type FakeIdentity struct {
	ID string
	OK bool
}

func (f *FakeIdentity) PartnerID() (string, bool) {
	return f.ID, f.OK
}
