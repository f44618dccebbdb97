package htmltopdf

import "strconv"

type PageSize string

const (
	PageSizeCustom     PageSize = "Custom"
	PageSizeA1         PageSize = "A1"
	PageSizeA2         PageSize = "A2"
	PageSizeA3         PageSize = "A3"
	PageSizeA4         PageSize = "A4"
	PageSizeA5         PageSize = "A5"
	PageSizeLetter     PageSize = "Letter"
	PageSizeHalfLetter PageSize = "HalfLetter"
	PageSizeLedger     PageSize = "Ledger"
	PageSizeLegal      PageSize = "Legal"
)

type PageOrientation string

const (
	Portrait  PageOrientation = "Portrait"
	Landscape PageOrientation = "Landscape"
)

// RenderingEngine selects the browser engine used by the service.
type RenderingEngine string

const (
	EngineWebKit     RenderingEngine = "WebKit"
	EngineRestricted RenderingEngine = "Restricted"
	EngineBlink      RenderingEngine = "Blink"
)

// SecureProtocol is the protocol used when the page being converted is served over https.
type SecureProtocol int

const (
	ProtocolTLS11OrNewer SecureProtocol = iota
	ProtocolTLS10
	ProtocolSSL3
)

type PageNumbersAlignment int

const (
	AlignLeft PageNumbersAlignment = iota + 1
	AlignCenter
	AlignRight
)

// StartupMode controls when the conversion starts: right after the page
// loads, or when the page's javascript calls startConversion.
type StartupMode string

const (
	StartupAutomatic StartupMode = "Automatic"
	StartupManual    StartupMode = "Manual"
)

func (s PageSize) valid() bool {
	switch s {
	case PageSizeCustom, PageSizeA1, PageSizeA2, PageSizeA3, PageSizeA4, PageSizeA5,
		PageSizeLetter, PageSizeHalfLetter, PageSizeLedger, PageSizeLegal:
		return true
	}
	return false
}

func (o PageOrientation) valid() bool { return o == Portrait || o == Landscape }

func (e RenderingEngine) valid() bool {
	return e == EngineWebKit || e == EngineRestricted || e == EngineBlink
}

func (p SecureProtocol) valid() bool { return p >= ProtocolTLS11OrNewer && p <= ProtocolSSL3 }

func (p SecureProtocol) String() string { return strconv.Itoa(int(p)) }

func (a PageNumbersAlignment) valid() bool { return a >= AlignLeft && a <= AlignRight }

func (a PageNumbersAlignment) String() string { return strconv.Itoa(int(a)) }

func (m StartupMode) valid() bool { return m == StartupAutomatic || m == StartupManual }
