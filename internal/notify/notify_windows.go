//go:build windows

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func platformSend(m Message) error {
	script := fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; `+
		`$t = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02); `+
		`$x = $t.GetElementsByTagName("text"); `+
		`$x.Item(0).AppendChild($t.CreateTextNode(%s)) > $null; `+
		`$x.Item(1).AppendChild($t.CreateTextNode(%s)) > $null; `+
		`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show([Windows.UI.Notifications.ToastNotification]::new($t));`,
		psQuote(m.Title), psQuote(m.Body), psQuote("Overmark"))
	return exec.Command("powershell.exe", "-NoProfile", "-Command", script).Run()
}
