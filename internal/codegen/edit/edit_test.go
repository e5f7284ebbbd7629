package edit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatch_Apply(t *testing.T) {
	cases := []struct {
		name       string
		src        string
		directives []Directive
		want       string
	}{
		{
			name: "empty batch returns copy",
			src:  "class A {}",
			want: "class A {}",
		},
		{
			name:       "noop leaves text untouched",
			src:        "class A {}",
			directives: []Directive{Noop("a.ts")},
			want:       "class A {}",
		},
		{
			name: "ascending order",
			src:  "0123456789",
			directives: []Directive{
				{Kind: KindAddImport, Offset: 2, Text: "a"},
				{Kind: KindAddParameter, Offset: 5, Text: "b"},
			},
			want: "01a234b56789",
		},
		{
			name: "production order does not matter",
			src:  "0123456789",
			directives: []Directive{
				{Kind: KindAddParameter, Offset: 5, Text: "b"},
				{Kind: KindAddImport, Offset: 2, Text: "a"},
			},
			want: "01a234b56789",
		},
		{
			name: "equal offsets keep production order",
			src:  "xy",
			directives: []Directive{
				{Kind: KindAddImport, Offset: 1, Text: "1"},
				{Kind: KindAddImport, Offset: 1, Text: "2"},
			},
			want: "x12y",
		},
		{
			name: "start and end of file",
			src:  "body",
			directives: []Directive{
				{Kind: KindAddImport, Offset: 4, Text: "\n"},
				{Kind: KindAddImport, Offset: 0, Text: "head;"},
			},
			want: "head;body\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBatch("a.ts")
			require.NoError(t, b.Add(tc.directives...))

			src := []byte(tc.src)
			got, err := b.Apply(src)
			require.NoError(t, err)
			require.Equal(t, tc.want, string(got))
			require.Equal(t, tc.src, string(src), "source buffer must not change")
		})
	}
}

func TestBatch_ApplyOutOfRange(t *testing.T) {
	b := NewBatch("a.ts")
	require.NoError(t, b.Insert(KindAddImport, 1, "ok"))
	require.NoError(t, b.Insert(KindAddImport, 20, "bad"))

	_, err := b.Apply([]byte("short"))
	require.ErrorIs(t, err, ErrOffsetOutOfRange)

	require.ErrorIs(t, b.Insert(KindAddImport, -1, "neg"), ErrOffsetOutOfRange)
}

func TestBatch_PathHandling(t *testing.T) {
	b := NewBatch("a.ts")
	require.NoError(t, b.Add(Directive{Kind: KindAddImport, Offset: 0, Text: "x"}))
	require.Equal(t, "a.ts", b.Directives()[0].Path)

	err := b.Add(Directive{Kind: KindAddImport, Path: "b.ts", Offset: 0, Text: "x"})
	require.ErrorIs(t, err, ErrPathMismatch)
	require.Equal(t, 1, b.Len())
}

func TestBatch_Empty(t *testing.T) {
	b := NewBatch("a.ts")
	require.True(t, b.Empty())
	require.NoError(t, b.Add(Noop("a.ts")))
	require.True(t, b.Empty())
	require.Equal(t, 1, b.Len())
	require.Empty(t, b.Directives())

	require.NoError(t, b.Insert(KindAddParameter, 0, "p"))
	require.False(t, b.Empty())
}
