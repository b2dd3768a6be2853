package strip

import (
	"errors"
	"io/fs"
	"slices"
	"testing"

	"github.com/spf13/afero"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantChanges int
	}{
		{
			name:        "span wrapper",
			input:       `<span data-i18n="x">你好</span>`,
			want:        `<span data-i18n="x"></span>`,
			wantChanges: 1,
		},
		{
			name:        "div wrapper",
			input:       `<div data-i18n="invite.title">邀请链接</div>`,
			want:        `<div data-i18n="invite.title"></div>`,
			wantChanges: 1,
		},
		{
			name:        "bare marker on other element",
			input:       `<p data-i18n="home.title">欢迎回来</p>`,
			want:        `<p data-i18n="home.title"></p>`,
			wantChanges: 1,
		},
		{
			name:        "span led by emoji",
			input:       `<span data-i18n="nav.home">🏠 首页</span>`,
			want:        `<span data-i18n="nav.home"></span>`,
			wantChanges: 1,
		},
		{
			name:        "section title div",
			input:       `<div class="section-title" data-i18n="stats.title">📊 数据统计</div>`,
			want:        `<div class="section-title" data-i18n="stats.title"></div>`,
			wantChanges: 1,
		},
		{
			name:        "known literal",
			input:       `<p data-i18n="challenge.countdown">⚡ 挑战倒计时</p>`,
			want:        `<p data-i18n="challenge.countdown"></p>`,
			wantChanges: 1,
		},
		{
			name:        "literal followed by more text",
			input:       `<p data-i18n="challenge.countdown">⚡ 挑战倒计时开始</p>`,
			want:        `<p data-i18n="challenge.countdown"></p>`,
			wantChanges: 2,
		},
		{
			name:        "other attributes kept in order",
			input:       `<span class="a" data-i18n="k" id="b">文字</span>`,
			want:        `<span class="a" data-i18n="k" id="b"></span>`,
			wantChanges: 1,
		},
		{
			name:        "unmarked text untouched",
			input:       `<p>说明</p><span data-i18n="x">你好</span>`,
			want:        `<p>说明</p><span data-i18n="x"></span>`,
			wantChanges: 1,
		},
		{
			name:        "latin text untouched",
			input:       `<span data-i18n="x">Hello</span>`,
			want:        `<span data-i18n="x">Hello</span>`,
			wantChanges: 0,
		},
		{
			name:        "nested element untouched",
			input:       `<div data-i18n="a"><span>中文</span></div>`,
			want:        `<div data-i18n="a"><span>中文</span></div>`,
			wantChanges: 0,
		},
		{
			name:        "no markers",
			input:       "<html><body><h1>标题</h1></body></html>\n",
			want:        "<html><body><h1>标题</h1></body></html>\n",
			wantChanges: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Content(tt.input)
			if got.Content != tt.want {
				t.Errorf("Content() = %q, want %q", got.Content, tt.want)
			}
			if got.Changes != tt.wantChanges {
				t.Errorf("Changes = %d, want %d", got.Changes, tt.wantChanges)
			}
			if got.Changed != (tt.input != tt.want) {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.input != tt.want)
			}

			again := Content(got.Content)
			if again.Changed || again.Content != got.Content {
				t.Errorf("second run changed %q to %q", got.Content, again.Content)
			}
		})
	}
}

func TestContent_PreservesMarkers(t *testing.T) {
	input := `<nav>
  <span data-i18n="nav.home">🏠 首页</span>
  <div data-i18n="nav.tasks">任务</div>
  <button data-i18n="common.copy" class="btn">复制</button>
  <div class="section-title" data-i18n="stats.title">📊 数据统计</div>
</nav>`

	got := Content(input)
	if !got.Changed {
		t.Fatal("expected changes")
	}

	before, after := Markers(input), Markers(got.Content)
	if !slices.Equal(before, after) {
		t.Errorf("markers changed:\nbefore: %v\nafter:  %v", before, after)
	}
	if len(after) != 4 {
		t.Errorf("len(markers) = %d, want 4", len(after))
	}
}

func TestMarkers(t *testing.T) {
	input := `<div data-i18n="a"><span class="x" DATA-I18N="b"/></div><p data-i18n="c.d">t</p><p>none</p>`

	got := Markers(input)
	want := []Marker{
		{Tag: "div", Key: "a"},
		{Tag: "span", Key: "b"},
		{Tag: "p", Key: "c.d"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Markers() = %v, want %v", got, want)
	}
}

func TestFile(t *testing.T) {
	t.Run("rewrites changed file", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		if err := afero.WriteFile(fsys, "index.html", []byte(`<div data-i18n="invite.title">邀请链接</div>`), 0644); err != nil {
			t.Fatal(err)
		}

		res, err := File(fsys, "index.html")
		if err != nil {
			t.Fatalf("File() error = %v", err)
		}
		if !res.Changed || res.Changes != 1 {
			t.Errorf("File() = %+v, want one change", res)
		}

		data, _ := afero.ReadFile(fsys, "index.html")
		if string(data) != `<div data-i18n="invite.title"></div>` {
			t.Errorf("file content = %q", data)
		}

		res, err = File(fsys, "index.html")
		if err != nil {
			t.Fatalf("second File() error = %v", err)
		}
		if res.Changed {
			t.Error("second run should be a no-op")
		}
	})

	t.Run("does not write unchanged file", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		content := "<p>no markers here</p>"
		if err := afero.WriteFile(mem, "index.html", []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		// a read-only view fails on any write attempt
		res, err := File(afero.NewReadOnlyFs(mem), "index.html")
		if err != nil {
			t.Fatalf("File() error = %v", err)
		}
		if res.Changed || res.Changes != 0 {
			t.Errorf("File() = %+v, want no changes", res)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := File(afero.NewMemMapFs(), "index.html")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("File() error = %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("refuses to drop markers", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		content := `<!-- <span data-i18n="a">中 --><p data-i18n="b">x</p>`
		if err := afero.WriteFile(fsys, "index.html", []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := File(fsys, "index.html")
		if !errors.Is(err, ErrMarkerLost) {
			t.Fatalf("File() error = %v, want ErrMarkerLost", err)
		}

		data, _ := afero.ReadFile(fsys, "index.html")
		if string(data) != content {
			t.Errorf("file was modified: %q", data)
		}
	})
}
