//go:build linux

package hotkey

/*
#cgo pkg-config: x11
#include <X11/Xlib.h>
#include <X11/XKBlib.h>
#include <X11/keysym.h>
#include <stdlib.h>

Display* displayPtr = NULL;

static int openDisplay() {
    if (displayPtr != NULL) return 1;
    XInitThreads();
    displayPtr = XOpenDisplay(NULL);
    if (displayPtr == NULL) return 0;

    // Report held keys as one press and one release instead of repeats.
    XkbSetDetectableAutoRepeat(displayPtr, True, NULL);
    XSelectInput(displayPtr, DefaultRootWindow(displayPtr), KeyPressMask | KeyReleaseMask);
    return 1;
}

// keycodeFor returns 0 when the keysym is unknown or unmapped.
static int keycodeFor(const char* name) {
    KeySym sym = XStringToKeysym(name);
    if (sym == NoSymbol) return 0;
    return XKeysymToKeycode(displayPtr, sym);
}

static void grabKey(int keycode, int modifiers) {
    XGrabKey(displayPtr, keycode, modifiers, DefaultRootWindow(displayPtr), False, GrabModeAsync, GrabModeAsync);
    XSync(displayPtr, False);
}

static void ungrabKey(int keycode, int modifiers) {
    XUngrabKey(displayPtr, keycode, modifiers, DefaultRootWindow(displayPtr));
    XSync(displayPtr, False);
}

static int checkEvent(int* keycode, int* pressed) {
    if (displayPtr == NULL) return 0;

    XEvent event;
    if (XPending(displayPtr) > 0) {
        XNextEvent(displayPtr, &event);
        if (event.type == KeyPress || event.type == KeyRelease) {
            *keycode = event.xkey.keycode;
            *pressed = (event.type == KeyPress) ? 1 : 0;
            return 1;
        }
    }
    return 0;
}

static void closeDisplay() {
    if (displayPtr != NULL) {
        XCloseDisplay(displayPtr);
        displayPtr = NULL;
    }
}
*/
import "C"

import (
	"fmt"
	"sync"
	"time"
	"unsafe"
)

type binding struct {
	keycode  int
	mods     int
	callback func(bool)
	down     bool
}

type linuxManager struct {
	mu       sync.Mutex
	bindings map[int]*binding // by keycode
	accels   map[string]int   // accelerator string to keycode
	stop     chan struct{}
	done     chan struct{}
}

// New creates a new Linux hotkey manager using X11
func New() (Manager, error) {
	if C.openDisplay() == 0 {
		return nil, fmt.Errorf("cannot open X display")
	}

	mgr := &linuxManager{
		bindings: make(map[int]*binding),
		accels:   make(map[string]int),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go mgr.eventLoop()

	return mgr, nil
}

func (m *linuxManager) Register(accel string, callback func(pressed bool)) error {
	acc, err := ParseAccelerator(accel)
	if err != nil {
		return err
	}

	name := C.CString(x11KeysymName(acc.Key))
	defer C.free(unsafe.Pointer(name))

	m.mu.Lock()
	defer m.mu.Unlock()

	keycode := int(C.keycodeFor(name))
	if keycode == 0 {
		return fmt.Errorf("no keycode for %s", acc.Key)
	}
	if _, taken := m.bindings[keycode]; taken {
		return fmt.Errorf("hotkey %s is already registered", acc)
	}

	mods := x11Modifiers(acc.Mods)
	for _, ignored := range x11IgnoredMasks {
		C.grabKey(C.int(keycode), C.int(mods|ignored))
	}

	m.bindings[keycode] = &binding{keycode: keycode, mods: mods, callback: callback}
	m.accels[acc.String()] = keycode
	return nil
}

func (m *linuxManager) eventLoop() {
	defer close(m.done)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			var keycode, pressed C.int
			for C.checkEvent(&keycode, &pressed) != 0 {
				m.dispatch(int(keycode), pressed == 1)
			}
		}
	}
}

// dispatch drops repeated presses so Toggle mode sees one press per hold.
func (m *linuxManager) dispatch(keycode int, pressed bool) {
	m.mu.Lock()
	b, ok := m.bindings[keycode]
	if !ok || b.down == pressed {
		m.mu.Unlock()
		return
	}
	b.down = pressed
	cb := b.callback
	m.mu.Unlock()

	cb(pressed)
}

func (m *linuxManager) Unregister(accel string) error {
	acc, err := ParseAccelerator(accel)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	keycode, ok := m.accels[acc.String()]
	if !ok {
		return fmt.Errorf("hotkey %s is not registered", acc)
	}
	b := m.bindings[keycode]
	for _, ignored := range x11IgnoredMasks {
		C.ungrabKey(C.int(keycode), C.int(b.mods|ignored))
	}
	delete(m.bindings, keycode)
	delete(m.accels, acc.String())
	return nil
}

func (m *linuxManager) Close() error {
	close(m.stop)
	<-m.done

	m.mu.Lock()
	defer m.mu.Unlock()
	for keycode, b := range m.bindings {
		for _, ignored := range x11IgnoredMasks {
			C.ungrabKey(C.int(keycode), C.int(b.mods|ignored))
		}
	}
	m.bindings = map[int]*binding{}
	m.accels = map[string]int{}
	C.closeDisplay()
	return nil
}
