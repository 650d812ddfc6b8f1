//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework Carbon
#include <Carbon/Carbon.h>

// Forward declaration for Go callback
extern void goHotkeyCallback(int pressed);

static EventHotKeyRef hotKeyRef = NULL;
static int handlerInstalled = 0;

// Event handler for hotkeys
static OSStatus hotkeyHandler(EventHandlerCallRef nextHandler, EventRef theEvent, void* userData) {
    EventHotKeyID hkRef;
    GetEventParameter(theEvent, kEventParamDirectObject, typeEventHotKeyID, NULL, sizeof(hkRef), NULL, &hkRef);

    UInt32 eventKind = GetEventKind(theEvent);
    int pressed = (eventKind == kEventHotKeyPressed) ? 1 : 0;

    goHotkeyCallback(pressed);

    return noErr;
}

// Register hotkey with Carbon
static int registerHotkey(UInt32 keyCode, UInt32 modifiers) {
    if (!handlerInstalled) {
        EventTypeSpec eventTypes[2];
        eventTypes[0].eventClass = kEventClassKeyboard;
        eventTypes[0].eventKind = kEventHotKeyPressed;
        eventTypes[1].eventClass = kEventClassKeyboard;
        eventTypes[1].eventKind = kEventHotKeyReleased;

        EventHandlerUPP handlerUPP = NewEventHandlerUPP(hotkeyHandler);
        InstallApplicationEventHandler(handlerUPP, 2, eventTypes, NULL, NULL);
        handlerInstalled = 1;
    }

    EventHotKeyID hotKeyID;
    hotKeyID.signature = 'wsnd';
    hotKeyID.id = 1;

    OSStatus status = RegisterEventHotKey(keyCode, modifiers, hotKeyID, GetApplicationEventTarget(), 0, &hotKeyRef);

    return (status == noErr) ? 1 : 0;
}

static void unregisterHotkey() {
    if (hotKeyRef != NULL) {
        UnregisterEventHotKey(hotKeyRef);
        hotKeyRef = NULL;
    }
}
*/
import "C"

import (
	"fmt"
	"sync"
)

// Carbon delivers to a single application handler, so one hotkey is
// supported at a time.
type darwinManager struct {
	mu       sync.Mutex
	accel    string
	callback func(bool)
}

var globalManager *darwinManager

// New creates a new macOS hotkey manager using Carbon
func New() (Manager, error) {
	mgr := &darwinManager{}
	return mgr, nil
}

//export goHotkeyCallback
func goHotkeyCallback(pressed C.int) {
	m := globalManager
	if m == nil {
		return
	}
	m.mu.Lock()
	cb := m.callback
	m.mu.Unlock()
	if cb != nil {
		cb(pressed == 1)
	}
}

func (m *darwinManager) Register(accel string, callback func(pressed bool)) error {
	acc, err := ParseAccelerator(accel)
	if err != nil {
		return err
	}
	keyCode, ok := carbonKeyCode(acc.Key)
	if !ok {
		return fmt.Errorf("key %s has no macOS key code", acc.Key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accel != "" {
		return fmt.Errorf("hotkey %s is already registered", m.accel)
	}

	ret := C.registerHotkey(C.UInt32(keyCode), C.UInt32(carbonModifiers(acc.Mods)))
	if ret == 0 {
		return fmt.Errorf("failed to register hotkey %s", acc)
	}

	m.accel = acc.String()
	m.callback = callback
	globalManager = m
	return nil
}

func (m *darwinManager) Unregister(accel string) error {
	acc, err := ParseAccelerator(accel)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accel != acc.String() {
		return fmt.Errorf("hotkey %s is not registered", acc)
	}
	C.unregisterHotkey()
	m.accel = ""
	m.callback = nil
	return nil
}

func (m *darwinManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	C.unregisterHotkey()
	m.accel = ""
	m.callback = nil
	globalManager = nil
	return nil
}
