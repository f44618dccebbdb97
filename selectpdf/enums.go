package selectpdf

import "strconv"

// PageLayout is the page layout a PDF viewer uses when the document is opened.
type PageLayout int

const (
	PageLayoutSinglePage PageLayout = iota
	PageLayoutOneColumn
	PageLayoutTwoColumnLeft
	PageLayoutTwoColumnRight
)

func (l PageLayout) String() string { return strconv.Itoa(int(l)) }

// PageMode is the panel a PDF viewer shows when the document is opened.
type PageMode int

const (
	PageModeUseNone PageMode = iota
	PageModeUseOutlines
	PageModeUseThumbs
	PageModeFullScreen
	PageModeUseOC
	PageModeUseAttachments
)

func (m PageMode) String() string { return strconv.Itoa(int(m)) }

func (l PageLayout) valid() bool { return l >= PageLayoutSinglePage && l <= PageLayoutTwoColumnRight }
func (m PageMode) valid() bool   { return m >= PageModeUseNone && m <= PageModeUseAttachments }
