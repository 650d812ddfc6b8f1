//go:build windows

package hotkey

import (
	"fmt"
	"sync"

	gdhotkey "golang.design/x/hotkey"
)

type windowsBinding struct {
	hk   *gdhotkey.Hotkey
	stop chan struct{}
	done chan struct{}
}

type windowsManager struct {
	mu       sync.Mutex
	bindings map[string]*windowsBinding
}

// New creates a Windows hotkey manager on top of RegisterHotKey.
func New() (Manager, error) {
	return &windowsManager{bindings: make(map[string]*windowsBinding)}, nil
}

func (m *windowsManager) Register(accel string, callback func(pressed bool)) error {
	acc, err := ParseAccelerator(accel)
	if err != nil {
		return err
	}
	vk, ok := win32VirtualKey(acc.Key)
	if !ok {
		return fmt.Errorf("key %s has no virtual key code", acc.Key)
	}

	var mods []gdhotkey.Modifier
	for _, mod := range win32Modifiers(acc.Mods) {
		mods = append(mods, gdhotkey.Modifier(mod))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.bindings[acc.String()]; taken {
		return fmt.Errorf("hotkey %s is already registered", acc)
	}

	hk := gdhotkey.New(mods, gdhotkey.Key(vk))
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey %s: %w", acc, err)
	}

	b := &windowsBinding{hk: hk, stop: make(chan struct{}), done: make(chan struct{})}
	m.bindings[acc.String()] = b
	go listen(b, callback)
	return nil
}

func listen(b *windowsBinding, callback func(bool)) {
	defer close(b.done)
	for {
		select {
		case <-b.hk.Keydown():
			callback(true)
		case <-b.hk.Keyup():
			callback(false)
		case <-b.stop:
			return
		}
	}
}

func (m *windowsManager) Unregister(accel string) error {
	acc, err := ParseAccelerator(accel)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bindings[acc.String()]
	if !ok {
		return fmt.Errorf("hotkey %s is not registered", acc)
	}
	delete(m.bindings, acc.String())
	return b.close()
}

func (b *windowsBinding) close() error {
	close(b.stop)
	<-b.done
	if err := b.hk.Unregister(); err != nil {
		return fmt.Errorf("failed to unregister hotkey: %w", err)
	}
	return nil
}

func (m *windowsManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for accel, b := range m.bindings {
		if err := b.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.bindings, accel)
	}
	return firstErr
}
