package maturity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key addresses one question by section and question index.
type Key struct {
	Section  int
	Question int
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%d", k.Section, k.Question)
}

func ParseKey(s string) (Key, error) {
	sec, q, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Key{}, fmt.Errorf("answer key %q is not <section>-<question>", s)
	}
	si, err := strconv.Atoi(sec)
	if err != nil || si < 0 {
		return Key{}, fmt.Errorf("answer key %q has an invalid section", s)
	}
	qi, err := strconv.Atoi(q)
	if err != nil || qi < 0 {
		return Key{}, fmt.Errorf("answer key %q has an invalid question", s)
	}
	return Key{Section: si, Question: qi}, nil
}

// Answers maps each question to its ordinal answer (0 Poor .. 3 Excellent).
// On the wire it is an object keyed "<section>-<question>".
type Answers map[Key]int

func (a Answers) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(a))
	for k, v := range a {
		out[k.String()] = v
	}
	return json.Marshal(out)
}

func (a *Answers) UnmarshalJSON(b []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Answers, len(raw))
	for k, v := range raw {
		key, err := ParseKey(k)
		if err != nil {
			return err
		}
		out[key] = v
	}
	*a = out
	return nil
}

// Missing lists the survey questions that have no answer, in survey order.
func (a Answers) Missing(s Survey) []Key {
	var out []Key
	for si, sec := range s.Sections {
		for qi := range sec.Questions {
			if _, ok := a[Key{Section: si, Question: qi}]; !ok {
				out = append(out, Key{Section: si, Question: qi})
			}
		}
	}
	return out
}

func sortedKeys(keys []Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}
