package mdast_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/gomdhtml/pkg/mdast"
)

func buildTestTree() *mdast.Tree {
	// Document
	//   Heading
	//     Text
	//   Paragraph
	//     Text
	//     Emphasis
	//       Text
	tree := mdast.NewTree()

	heading := tree.NewNode(mdast.NodeHeading, 0)
	tree.AppendChild(heading, tree.NewText([]byte("Title"), 2))
	tree.AppendChild(mdast.Root, heading)

	para := tree.NewNode(mdast.NodeParagraph, 9)
	tree.AppendChild(para, tree.NewText([]byte("some "), 9))

	emphasis := tree.NewNode(mdast.NodeEmphasis, 14)
	tree.AppendChild(emphasis, tree.NewText([]byte("text"), 15))
	tree.AppendChild(para, emphasis)

	tree.AppendChild(mdast.Root, para)

	return tree
}

func TestWalk(t *testing.T) {
	t.Parallel()

	tree := buildTestTree()

	var enterOrder, leaveOrder []mdast.NodeKind
	err := mdast.Walk(tree, mdast.Root, func(_ mdast.NodeID, n *mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if entering {
			enterOrder = append(enterOrder, n.Kind)
		} else {
			leaveOrder = append(leaveOrder, n.Kind)
		}
		return mdast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	expectedEnter := []mdast.NodeKind{
		mdast.NodeDocument,
		mdast.NodeHeading,
		mdast.NodeText,
		mdast.NodeParagraph,
		mdast.NodeText,
		mdast.NodeEmphasis,
		mdast.NodeText,
	}
	expectedLeave := []mdast.NodeKind{
		mdast.NodeText,
		mdast.NodeHeading,
		mdast.NodeText,
		mdast.NodeText,
		mdast.NodeEmphasis,
		mdast.NodeParagraph,
		mdast.NodeDocument,
	}

	if len(enterOrder) != len(expectedEnter) {
		t.Fatalf("enter: expected %d, got %d", len(expectedEnter), len(enterOrder))
	}
	for i, kind := range expectedEnter {
		if enterOrder[i] != kind {
			t.Errorf("enter %d: expected %s, got %s", i, kind, enterOrder[i])
		}
	}

	if len(leaveOrder) != len(expectedLeave) {
		t.Fatalf("leave: expected %d, got %d", len(expectedLeave), len(leaveOrder))
	}
	for i, kind := range expectedLeave {
		if leaveOrder[i] != kind {
			t.Errorf("leave %d: expected %s, got %s", i, kind, leaveOrder[i])
		}
	}
}

func TestWalk_NilTree(t *testing.T) {
	t.Parallel()

	err := mdast.Walk(nil, mdast.Root, func(mdast.NodeID, *mdast.Node, bool) (mdast.WalkStatus, error) {
		t.Error("callback should not be called for nil tree")
		return mdast.WalkContinue, nil
	})
	if err != nil {
		t.Errorf("expected nil error for nil tree, got %v", err)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	t.Parallel()

	tree := buildTestTree()
	expectedErr := errors.New("stop here")
	count := 0

	err := mdast.Walk(tree, mdast.Root, func(_ mdast.NodeID, n *mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		count++
		if n.Kind == mdast.NodeParagraph {
			return mdast.WalkContinue, expectedErr
		}
		return mdast.WalkContinue, nil
	})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}

	// Document, Heading, Text, Paragraph.
	if count != 4 {
		t.Errorf("expected 4 nodes before stopping, got %d", count)
	}
}

func TestWalk_SkipChildrenAndStop(t *testing.T) {
	t.Parallel()

	tree := buildTestTree()

	var kinds []mdast.NodeKind
	err := mdast.Walk(tree, mdast.Root, func(_ mdast.NodeID, n *mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		kinds = append(kinds, n.Kind)
		switch n.Kind {
		case mdast.NodeHeading:
			return mdast.WalkSkipChildren, nil
		case mdast.NodeEmphasis:
			return mdast.WalkStop, nil
		default:
			return mdast.WalkContinue, nil
		}
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	expected := []mdast.NodeKind{
		mdast.NodeDocument,
		mdast.NodeHeading,
		mdast.NodeParagraph,
		mdast.NodeText,
		mdast.NodeEmphasis,
	}
	if len(kinds) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, kinds)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("node %d: expected %s, got %s", i, expected[i], kinds[i])
		}
	}
}

func TestFindByKind(t *testing.T) {
	t.Parallel()

	tree := buildTestTree()

	texts := mdast.FindByKind(tree, mdast.Root, mdast.NodeText)
	if len(texts) != 3 {
		t.Fatalf("expected 3 text nodes, got %d", len(texts))
	}

	first := mdast.FindFirst(tree, mdast.Root, func(_ mdast.NodeID, n *mdast.Node) bool {
		return n.Kind == mdast.NodeEmphasis
	})
	if first == mdast.NoNode || tree.Kind(first) != mdast.NodeEmphasis {
		t.Errorf("expected emphasis node, got %v", first)
	}

	missing := mdast.FindFirst(tree, mdast.Root, func(_ mdast.NodeID, n *mdast.Node) bool {
		return n.Kind == mdast.NodeImage
	})
	if missing != mdast.NoNode {
		t.Errorf("expected NoNode, got %v", missing)
	}
}

func TestTree_PlainText(t *testing.T) {
	t.Parallel()

	tree := buildTestTree()
	para := tree.Children(mdast.Root)[1]

	if got := tree.PlainText(para); got != "some text" {
		t.Errorf("expected %q, got %q", "some text", got)
	}
}

func TestTree_RemoveLastChild(t *testing.T) {
	t.Parallel()

	tree := buildTestTree()
	removed := tree.RemoveLastChild(mdast.Root)

	if tree.Kind(removed) != mdast.NodeParagraph {
		t.Errorf("expected paragraph, got %s", tree.Kind(removed))
	}
	if tree.Node(mdast.Root).ChildCount() != 1 {
		t.Errorf("expected 1 remaining child, got %d", tree.Node(mdast.Root).ChildCount())
	}
	if got := tree.RemoveLastChild(tree.NewNode(mdast.NodeParagraph, 0)); got != mdast.NoNode {
		t.Errorf("expected NoNode for childless node, got %v", got)
	}
}

func TestNodeKind_String(t *testing.T) {
	t.Parallel()

	if mdast.NodeListItem.String() != "ListItem" {
		t.Errorf("unexpected name %q", mdast.NodeListItem.String())
	}
	if !mdast.NodeHTMLBlock.IsBlock() || mdast.NodeHTMLBlock.IsInline() {
		t.Error("HTMLBlock should be a block kind")
	}
	if !mdast.NodeEscaped.IsInline() || mdast.NodeEscaped.IsBlock() {
		t.Error("Escaped should be an inline kind")
	}
	if !mdast.NodeMetadata.IsBlock() || mdast.NodeMetadata.String() != "Metadata" {
		t.Error("Metadata should be a named block kind")
	}
	if !mdast.NodeFootnote.IsInline() || mdast.NodeFootnote.String() != "Footnote" {
		t.Error("Footnote should be a named inline kind")
	}
}
