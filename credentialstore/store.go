// Package credentialstore persists sensitive AuthMethod Field values in
// the OS credential store instead of plaintext configuration, so a
// sensitive Field's Value never needs to round-trip through a config
// file or process dump.
package credentialstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "polychat-core"

// Set stores value under the given plugin/field pair, overwriting any
// existing value.
func Set(pluginName, fieldName, value string) error {
	if err := keyring.Set(service, key(pluginName, fieldName), value); err != nil {
		return fmt.Errorf("store credential for %s/%s: %w", pluginName, fieldName, err)
	}
	return nil
}

// Get retrieves the value stored for the given plugin/field pair. ok is
// false, with a nil error, when no value has been set.
func Get(pluginName, fieldName string) (value string, ok bool, err error) {
	value, err = keyring.Get(service, key(pluginName, fieldName))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("retrieve credential for %s/%s: %w", pluginName, fieldName, err)
	}
	return value, true, nil
}

// Delete removes any value stored for the given plugin/field pair. It is
// not an error to delete a value that was never set.
func Delete(pluginName, fieldName string) error {
	if err := keyring.Delete(service, key(pluginName, fieldName)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete credential for %s/%s: %w", pluginName, fieldName, err)
	}
	return nil
}

func key(pluginName, fieldName string) string {
	return pluginName + "/" + fieldName
}
