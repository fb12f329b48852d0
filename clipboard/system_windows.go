//go:build windows

package clipboard

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

const gmemMoveable = 0x0002

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard           = user32.NewProc("OpenClipboard")
	procCloseClipboard          = user32.NewProc("CloseClipboard")
	procEmptyClipboard          = user32.NewProc("EmptyClipboard")
	procRegisterClipboardFormat = user32.NewProc("RegisterClipboardFormatW")
	procSetClipboardData        = user32.NewProc("SetClipboardData")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
)

// native drives the Win32 clipboard. The clipboard is owned by the thread
// that opened it, so Open pins the goroutine to its thread until Close.
type native struct{}

// NewSystem returns the clipboard of the interactive desktop session.
func NewSystem() (System, error) {
	if err := user32.Load(); err != nil {
		return nil, err
	}
	if err := kernel32.Load(); err != nil {
		return nil, err
	}
	return native{}, nil
}

func (native) Open() error {
	runtime.LockOSThread()
	if r, _, err := procOpenClipboard.Call(0); r == 0 {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}

func (native) Close() error {
	defer runtime.UnlockOSThread()
	if r, _, err := procCloseClipboard.Call(); r == 0 {
		return err
	}
	return nil
}

func (native) Empty() error {
	if r, _, err := procEmptyClipboard.Call(); r == 0 {
		return err
	}
	return nil
}

func (native) RegisterFormat(name string) (uint32, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	r, _, err := procRegisterClipboardFormat.Call(uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return 0, err
	}
	return uint32(r), nil
}

// SetData copies data into a movable global block, NUL terminated, and
// hands ownership of the block to the clipboard.
func (native) SetData(format uint32, data []byte) error {
	size := uintptr(len(data) + 1)
	h, _, err := procGlobalAlloc.Call(gmemMoveable, size)
	if h == 0 {
		return fmt.Errorf("GlobalAlloc: %w", err)
	}

	p, _, err := procGlobalLock.Call(h)
	if p == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("GlobalLock: %w", err)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(p)), size)
	copy(dst, data)
	dst[len(data)] = 0
	procGlobalUnlock.Call(h)

	if r, _, err := procSetClipboardData.Call(uintptr(format), h); r == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("SetClipboardData: %w", err)
	}
	return nil
}
