package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("解析测试数据失败: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"小林","age":17},"cast":[{"name":"A"},{"name":"B"}],"score":2.5}`)
	cases := []struct {
		in, want string
	}{
		{"你好，${user.name}", "你好，小林"},
		{"${ user.age } 岁", "17 岁"},
		{"${cast[1].name} 出场", "B 出场"},
		{"得分 ${score}", "得分 2.5"},
		{"${missing.key}", "${missing.key}"},
		{"${cast[9].name}", "${cast[9].name}"},
		{"没有占位符", "没有占位符"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("data 为空时应保留占位符，实际 %q", got)
	}
}

func TestLinesDoesNotMutateInput(t *testing.T) {
	data := decode(t, `{"who":"Ann"}`)
	in := []string{"${who}:", "bye"}
	out := Lines(in, data)
	if out[0] != "Ann:" || out[1] != "bye" {
		t.Fatalf("unexpected output: %#v", out)
	}
	if in[0] != "${who}:" {
		t.Fatalf("入参被修改: %#v", in)
	}
}

func TestLookupRejectsMalformedPath(t *testing.T) {
	data := decode(t, `{"a":[1,2]}`)
	for _, p := range []string{"", "a[", "a[x]", "a[-1]", "a.b"} {
		if _, ok := Lookup(data, p); ok {
			t.Fatalf("路径 %q 不应解析成功", p)
		}
	}
	if v, ok := Lookup(data, "a[1]"); !ok || v.(float64) != 2 {
		t.Fatalf("a[1] 应为 2，实际 %v %v", v, ok)
	}
}
