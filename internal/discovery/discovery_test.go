package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phpunitbridge/internal/position"
	"phpunitbridge/internal/testutil"
)

const fooTest = `<?php

namespace Tests\Unit;

use PHPUnit\Framework\TestCase;

class FooTest extends TestCase
{
    public function testBar(): void
    {
        $this->assertTrue(true);
    }

    public function testBaz(): void
    {
        $this->assertSame(1, 1);
    }

    // @test
    public function helperMethod(): void
    {
        $this->assertTrue(true);
    }

    private function buildFixture(): array
    {
        return [];
    }
}
`

func newDiscoverer(t *testing.T, opts ...Option) *Discoverer {
	t.Helper()
	d, err := New(log.NewLogger(log.DiscardHandler()), opts...)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

type shape struct {
	Kind     position.Kind
	Name     string
	ID       string
	Children []shape
}

func shapeOf(n *position.Node) shape {
	pos := n.Position()
	out := shape{Kind: pos.Kind, Name: pos.Name, ID: pos.ID}
	for _, child := range n.Children() {
		out.Children = append(out.Children, shapeOf(child))
	}
	return out
}

func TestDiscoverNestsTestsUnderClass(t *testing.T) {
	d := newDiscoverer(t)
	path := "/project/tests/Unit/FooTest.php"

	tree, err := d.DiscoverSource(testutil.Context(t), path, []byte(fooTest))
	require.NoError(t, err)

	want := shape{
		Kind: position.KindFile,
		Name: "FooTest.php",
		ID:   path,
		Children: []shape{{
			Kind: position.KindNamespace,
			Name: "FooTest",
			ID:   path + "::FooTest",
			Children: []shape{
				{Kind: position.KindTest, Name: "testBar", ID: path + "::FooTest::testBar"},
				{Kind: position.KindTest, Name: "testBaz", ID: path + "::FooTest::testBaz"},
				{Kind: position.KindTest, Name: "helperMethod", ID: path + "::FooTest::helperMethod"},
			},
		}},
	}
	if diff := cmp.Diff(want, shapeOf(tree.Root())); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, tree.Tests(), 3)
}

func TestDiscoverRanges(t *testing.T) {
	d := newDiscoverer(t)
	path := "/project/tests/Unit/FooTest.php"

	tree, err := d.DiscoverSource(testutil.Context(t), path, []byte(fooTest))
	require.NoError(t, err)

	class, ok := tree.Get(path + "::FooTest")
	require.True(t, ok)
	assert.Equal(t, 6, class.Position().Range.StartLine)

	test, ok := tree.Get(path + "::FooTest::testBar")
	require.True(t, ok)
	assert.Equal(t, 8, test.Position().Range.StartLine)
	assert.Equal(t, 11, test.Position().Range.EndLine)
	assert.True(t, class.Position().Range.Contains(test.Position().Range))
}

func TestDiscoverDocblockAndAttributes(t *testing.T) {
	src := `<?php

use PHPUnit\Framework\Attributes\Test;
use PHPUnit\Framework\Attributes\DataProvider;

final class CheckoutTest extends \PHPUnit\Framework\TestCase
{
    /**
     * @test
     */
    public function it_charges_the_card(): void {}

    #[Test]
    public function it_sends_a_receipt(): void {}

    #[DataProvider('amounts'), \PHPUnit\Framework\Attributes\Test]
    public function it_rounds(int $amount): void {}

    #[TestDox('ignored')]
    public function describesNothing(): void {}

    public static function amounts(): array { return [[1], [2]]; }
}
`
	d := newDiscoverer(t)
	tree, err := d.DiscoverSource(testutil.Context(t), "/project/tests/CheckoutTest.php", []byte(src))
	require.NoError(t, err)

	var names []string
	for _, pos := range tree.Tests() {
		names = append(names, pos.Name)
	}
	assert.Equal(t, []string{"it_charges_the_card", "it_sends_a_receipt", "it_rounds"}, names)
}

func TestDiscoverTestsOutsideMatchingClass(t *testing.T) {
	src := `<?php

class Helpers
{
    public function testLooksLikeATest(): void {}
}
`
	d := newDiscoverer(t)
	path := "/project/tests/HelpersTest.php"
	tree, err := d.DiscoverSource(testutil.Context(t), path, []byte(src))
	require.NoError(t, err)

	tests := tree.Tests()
	require.Len(t, tests, 1)
	assert.Equal(t, path+"::testLooksLikeATest", tests[0].ID)
	node, _ := tree.Get(tests[0].ID)
	assert.Equal(t, position.KindFile, node.Parent().Position().Kind)
}

func TestDiscoverMatchesAreCaseSensitive(t *testing.T) {
	src := `<?php

class Fixtures
{
    public function TestUpper(): void {}
}

class BarTest
{
    public function Testing(): void {}
}
`
	d := newDiscoverer(t)
	tree, err := d.DiscoverSource(testutil.Context(t), "/project/tests/BarTest.php", []byte(src))
	require.NoError(t, err)

	assert.Empty(t, tree.Tests())
	children := tree.Root().Children()
	require.Len(t, children, 1)
	assert.Equal(t, "BarTest", children[0].Position().Name)
}

func TestDiscoverDuplicateNamesDoNotCrash(t *testing.T) {
	src := `<?php

class DupTest
{
    public function testSame(): void {}
    public function testSame(): void {}
}
`
	d := newDiscoverer(t)
	path := "/project/tests/DupTest.php"
	tree, err := d.DiscoverSource(testutil.Context(t), path, []byte(src))
	require.NoError(t, err)

	assert.Len(t, tree.Tests(), 2)
	node, ok := tree.Get(path + "::DupTest::testSame")
	require.True(t, ok)
	assert.Equal(t, 4, node.Position().Range.StartLine)
}

func TestDiscoverSyntaxError(t *testing.T) {
	src := `<?php

class BrokenTest
{
    public function testBroken(): void {
        $x = ;
    }
`
	d := newDiscoverer(t)
	_, err := d.DiscoverSource(testutil.Context(t), "/project/tests/BrokenTest.php", []byte(src))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParseFailure))

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "/project/tests/BrokenTest.php", parseErr.Path)
}

func TestDiscoverReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tests", "FooTest.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(fooTest), 0o644))

	d := newDiscoverer(t)
	tree, err := d.Discover(testutil.Context(t), path)
	require.NoError(t, err)
	assert.Len(t, tree.Tests(), 3)
}

func TestDiscoverMissingFile(t *testing.T) {
	d := newDiscoverer(t, WithReadFile(func(string) ([]byte, error) {
		return nil, os.ErrNotExist
	}))
	_, err := d.Discover(testutil.Context(t), "/project/tests/GoneTest.php")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParseFailure))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDiscoverEmptyFile(t *testing.T) {
	d := newDiscoverer(t)
	tree, err := d.DiscoverSource(testutil.Context(t), "/project/tests/EmptyTest.php", []byte("<?php\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Len())
}
