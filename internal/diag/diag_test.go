package diag

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestContextString(t *testing.T) {
	cases := []struct {
		ctx  Context
		want string
	}{
		{At("Body"), "Body"},
		{At("Body").InScene("robot"), "robot/Body"},
		{At("").InScene("robot"), "robot"},
		{At("Body").WithChannel(1), "Body uv1"},
	}
	for _, c := range cases {
		if got := c.ctx.String(); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Report(Warning, At("n"), "w")
		}()
	}
	wg.Wait()
	c.Report(Error, At("m").WithChannel(0), "e")

	if c.Count(Warning) != 8 || c.Count(Error) != 1 || c.Count(Info) != 0 {
		t.Fatalf("counts: %+v", c.Issues())
	}
	last := c.Issues()[8]
	if last.Level != "error" || last.Channel == nil || *last.Channel != 0 {
		t.Fatalf("last issue: %+v", last)
	}
	if c.Issues()[0].Channel != nil {
		t.Fatalf("node-level issue should carry no channel")
	}
}

func TestWriterSinkAndScoped(t *testing.T) {
	var buf bytes.Buffer
	var c Collector
	s := Scoped(Tee(NewWriterSink(&buf, Warning), &c, nil), "robot")

	s.Report(Info, At("Body"), "quiet")
	s.Report(Warning, At("Body"), "loud")
	s.Report(Error, At("").InScene("other"), "kept")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info should be filtered: %q", out)
	}
	if !strings.Contains(out, "warning: [robot/Body] loud") || !strings.Contains(out, "error: [other] kept") {
		t.Fatalf("output: %q", out)
	}
	if is := c.Issues(); len(is) != 3 || is[0].Scene != "robot" || is[2].Scene != "other" {
		t.Fatalf("collected: %+v", is)
	}
}

func TestOr(t *testing.T) {
	Or(nil).Report(Error, At("x"), "dropped")
	var c Collector
	if Or(&c) != Sink(&c) {
		t.Fatalf("Or should keep a non-nil sink")
	}
}
