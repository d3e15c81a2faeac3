// Package blocks splits a (possibly still growing) message text into an
// ordered list of typed blocks and keeps the identity of unchanged blocks
// stable across repeated parses of the same content stream.
package blocks

// Kind identifies the type of a block.
type Kind int

const (
	KindMarkdown Kind = iota
	KindCode
	KindHTML
	KindImage
	KindDiff
)

func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindCode:
		return "code"
	case KindHTML:
		return "html"
	case KindImage:
		return "image"
	case KindDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// Role is the author of the text being classified.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Block is one classified span of a message. Blocks are returned as pointers
// and must be treated as immutable: the Recycler hands the same pointer back
// for unchanged content, and renderers use pointer identity to skip work.
type Block interface {
	Kind() Kind
}

// MarkdownText is markdown or plain prose.
type MarkdownText struct {
	Content string
}

// FencedCode is a triple-backtick code span. Partial is set while the
// closing fence has not arrived yet; a partial block is always last.
type FencedCode struct {
	Title   string
	Code    string
	Partial bool
}

// DangerousHTML is a raw HTML document. It must not be rendered live
// without explicit confirmation from the user.
type DangerousHTML struct {
	HTML string
}

// ImageReference is a single markdown image line.
type ImageReference struct {
	URL string
	Alt string
}

// TextDiff wraps diff operations computed elsewhere.
type TextDiff struct {
	Ops []DiffOp
}

func (*MarkdownText) Kind() Kind   { return KindMarkdown }
func (*FencedCode) Kind() Kind     { return KindCode }
func (*DangerousHTML) Kind() Kind  { return KindHTML }
func (*ImageReference) Kind() Kind { return KindImage }
func (*TextDiff) Kind() Kind       { return KindDiff }

// DiffOpType is the kind of a diff operation.
type DiffOpType int

const (
	DiffEqual DiffOpType = iota
	DiffInsert
	DiffDelete
)

func (t DiffOpType) String() string {
	switch t {
	case DiffInsert:
		return "insert"
	case DiffDelete:
		return "delete"
	default:
		return "equal"
	}
}

// DiffOp is one span of a diff.
type DiffOp struct {
	Type DiffOpType
	Text string
}
