//go:build windows

package svgsource

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/windows"
)

// Module reads an RT_RCDATA resource from a loaded module.
// A Name of the form "#123" selects the integer identifier 123.
// A zero Handle designates the executable of the current process.
type Module struct {
	Handle windows.Handle
	Name   string
}

func (m Module) resourceName() windows.ResourceIDOrString {
	if strings.HasPrefix(m.Name, "#") {
		if id, err := strconv.ParseUint(m.Name[1:], 10, 16); err == nil {
			return windows.ResourceID(id)
		}
	}
	return m.Name
}

func (m Module) Load() ([]byte, error) {
	res, err := windows.FindResource(m.Handle, m.resourceName(), windows.RT_RCDATA)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrResourceNotFound, m.Name, err)
	}
	data, err := windows.LoadResourceData(m.Handle, res)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnreadable, m.Name, err)
	}
	// data aliases the module image
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m Module) String() string { return "module:" + m.Name }
