package nativehost

// OfficialChromeExtensionID is the Chrome Web Store ID of the
// BookmarkToLearn extension. Populated at packaging time; an empty value
// means installs must pass an explicit --chrome-extension-id.
const OfficialChromeExtensionID = ""

// OfficialFirefoxExtensionID is the Firefox Add-ons ID of the
// BookmarkToLearn extension. Populated at packaging time; an empty value
// means installs must pass an explicit --firefox-extension-id.
const OfficialFirefoxExtensionID = ""

// HasOfficialExtensions returns true if at least one official extension ID
// is configured. Package manager hooks use this to decide whether an
// unattended install can proceed.
func HasOfficialExtensions() bool {
	return hasOfficialExtensions(OfficialChromeExtensionID, OfficialFirefoxExtensionID)
}

func hasOfficialExtensions(chromeID, firefoxID string) bool {
	return chromeID != "" || firefoxID != ""
}
