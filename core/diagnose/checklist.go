package diagnose

import (
	"strings"

	"github.com/adalundhe/helpline/core/extract"
)

// buildChecklist renders the generic troubleshooting block appended when
// neither the incident table nor the docs produced something actionable. The
// block is always emitted in full; extraction results only select the
// device-specific sub-steps.
func buildChecklist(hints extract.Result) string {
	var b strings.Builder

	b.WriteString("I couldn't find a reported outage or a clear doc-based fix for your location/device. Let's try some quick troubleshooting and collect more information:\n")

	b.WriteString("\nQuick checks (do these first):\n")
	b.WriteString("1. Toggle Airplane Mode ON → wait 5s → OFF.\n")
	b.WriteString("2. Restart your phone.\n")
	b.WriteString("3. Check SIM: open Settings → Network & SIM and ensure SIM is enabled and not in airplane mode.\n")
	b.WriteString("4. Verify signal bars in the status bar and try moving to a window or outdoors briefly.\n")
	b.WriteString("5. If you see 'No Service' or 'Emergency Calls only', check if the SIM works in another phone.\n")
	b.WriteString("6. Check call barring / Do Not Disturb settings and that your account is active.\n")

	b.WriteString("\nDevice-specific steps:\n")
	if hints.HasDevice() && strings.Contains(hints.Device, "iphone") {
		b.WriteString("- For iPhone: Settings → Cellular → Cellular Data Options → Enable VoLTE/Voice & Data if relevant.\n")
	} else if hints.HasDevice() {
		b.WriteString("- For Android: Check Mobile Network → Preferred Network Type → Ensure 4G/3G is selected; check APN settings if data fails.\n")
	} else {
		b.WriteString("- For iPhone: Settings → Cellular → Cellular Data Options → Enable VoLTE/Voice & Data if relevant.\n")
		b.WriteString("- For Android: Check Mobile Network → Preferred Network Type → Ensure 4G/3G is selected; check APN settings if data fails.\n")
	}

	b.WriteString("\nPlease provide the following so I can investigate further:\n")
	b.WriteString("- Exact location (e.g., 'Mumbai West' or full neighborhood/address).\n")
	b.WriteString("- Device model (e.g., iPhone 14, Samsung Galaxy S22).\n")
	b.WriteString("- What happens when you try to call? (error message, call drops, busy tone).\n")
	b.WriteString("- When did the issue start? Has it happened before?\n")
	b.WriteString("- Are other users in the same location affected?\n")

	b.WriteString("\nNext steps I can take for you:\n")
	b.WriteString("- Check network incident reports for the exact address once you provide it.\n")
	b.WriteString("- Run a deeper diagnostics flow (takes a bit longer) to analyze SIM/IMSI/account status.\n")
	b.WriteString("- If needed, escalate to field engineers for local signal checks.")

	return b.String()
}
