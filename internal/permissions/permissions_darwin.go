//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework AVFoundation
#import <AVFoundation/AVFoundation.h>

int checkMicrophonePermission() {
    AVAuthorizationStatus status = [AVCaptureDevice authorizationStatusForMediaType:AVMediaTypeAudio];
    return (int)status;
}

void requestMicrophonePermission() {
    [AVCaptureDevice requestAccessForMediaType:AVMediaTypeAudio completionHandler:^(BOOL granted) {}];
}
*/
import "C"

import "fmt"

// CheckMicrophone returns the current microphone permission status
func CheckMicrophone() Status {
	return Status(C.checkMicrophonePermission())
}

// RequestMicrophone triggers the system microphone permission dialog
func RequestMicrophone() {
	C.requestMicrophonePermission()
}

// EnsureMicrophone asks for access when it has not been decided yet. Carbon
// hotkeys need no accessibility grant, so the microphone is all we check.
func EnsureMicrophone() error {
	switch status := CheckMicrophone(); status {
	case PermissionAuthorized:
		return nil
	case PermissionNotDetermined:
		RequestMicrophone()
		return fmt.Errorf("%w: approve the system prompt and record again", ErrMicrophoneDenied)
	default:
		return fmt.Errorf("%w (%s): enable it in System Settings → Privacy & Security → Microphone", ErrMicrophoneDenied, status)
	}
}
