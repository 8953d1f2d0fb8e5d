//go:build windows

package volume

import (
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
)

// sFalse is returned by CoInitializeEx when COM is already initialized on the thread.
const sFalse = 0x00000001

func init() {
	Register("windows", func() (Controller, error) {
		return NewCoreAudioController(), nil
	})
}

// CoreAudioController changes the master volume of the default render
// endpoint through the Windows Core Audio API.
type CoreAudioController struct{}

// NewCoreAudioController creates a Core Audio backed controller.
func NewCoreAudioController() *CoreAudioController {
	return &CoreAudioController{}
}

// ChangeVolume adds delta percentage points to the master volume scalar.
func (c *CoreAudioController) ChangeVolume(delta int) error {
	// COM apartments are per thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != sFalse {
			return fmt.Errorf("initialize COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		return fmt.Errorf("create device enumerator: %w", err)
	}
	defer mmde.Release()

	var mmd *wca.IMMDevice
	if err := mmde.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &mmd); err != nil {
		return fmt.Errorf("get default endpoint: %w", err)
	}
	defer mmd.Release()

	var aev *wca.IAudioEndpointVolume
	if err := mmd.Activate(wca.IID_IAudioEndpointVolume, wca.CLSCTX_ALL, nil, &aev); err != nil {
		return fmt.Errorf("activate endpoint volume: %w", err)
	}
	defer aev.Release()

	var level float32
	if err := aev.GetMasterVolumeLevelScalar(&level); err != nil {
		return fmt.Errorf("get volume: %w", err)
	}

	next := Clamp(float64(level)+float64(delta)/100, 0, 1)
	if err := aev.SetMasterVolumeLevelScalar(float32(next), nil); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}

	return nil
}
