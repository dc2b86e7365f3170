//go:build linux

package notify

import "github.com/godbus/dbus/v5"

// platformSend uses the freedesktop notification service on the session bus.
func platformSend(m Message) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	return obj.Call("org.freedesktop.Notifications.Notify", 0,
		"overmark", uint32(0), m.Icon, m.Title, m.Body,
		[]string{}, map[string]dbus.Variant{}, int32(5000)).Err
}
