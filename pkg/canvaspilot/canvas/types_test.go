package canvas

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMetricJSON(t *testing.T) {
	t.Run("unset value encodes as empty string", func(t *testing.T) {
		b, err := json.Marshal(Metric{ID: "001", Label: "Sales"})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(b), `"value":""`) {
			t.Errorf("encoded metric = %s, want empty-string value", b)
		}
	})

	t.Run("set value encodes as number", func(t *testing.T) {
		b, err := json.Marshal(Metric{ID: "001", Label: "Sales", Value: MetricValue(85)})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(b), `"value":85`) {
			t.Errorf("encoded metric = %s, want numeric value", b)
		}
	})

	t.Run("decodes number, numeric string and empty string", func(t *testing.T) {
		cases := []struct {
			in   string
			want *float64
		}{
			{`{"id":"a","label":"l","value":42}`, MetricValue(42)},
			{`{"id":"a","label":"l","value":"42.5"}`, MetricValue(42.5)},
			{`{"id":"a","label":"l","value":""}`, nil},
		}
		for _, c := range cases {
			var m Metric
			if err := json.Unmarshal([]byte(c.in), &m); err != nil {
				t.Fatalf("unmarshal %s: %v", c.in, err)
			}
			switch {
			case c.want == nil && m.Value != nil:
				t.Errorf("%s: value = %v, want unset", c.in, *m.Value)
			case c.want != nil && (m.Value == nil || *m.Value != *c.want):
				t.Errorf("%s: value = %v, want %v", c.in, m.Value, *c.want)
			}
		}
	})
}

func TestItemUnmarshal(t *testing.T) {
	t.Run("payload decoded by declared type", func(t *testing.T) {
		raw := `{"id":"0001","type":"project","name":"Launch","subtitle":"Q2",
			"data":{"field1":"desc","field2":"Option A","field3":"2024-03-01","field4":[
				{"id":"1","text":"ship it","done":false,"proposed":true}],"field4_id":1}}`
		var it Item
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			t.Fatal(err)
		}
		d, ok := it.Data.(ProjectData)
		if !ok {
			t.Fatalf("data decoded as %T, want ProjectData", it.Data)
		}
		if d.Field3 != "2024-03-01" || len(d.Field4) != 1 || !d.Field4[0].Proposed {
			t.Errorf("unexpected payload: %+v", d)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		var it Item
		err := json.Unmarshal([]byte(`{"id":"1","type":"widget","name":"x"}`), &it)
		if err == nil {
			t.Fatal("expected error for unknown item type")
		}
	})

	t.Run("missing payload gets the variant default", func(t *testing.T) {
		var it Item
		if err := json.Unmarshal([]byte(`{"id":"1","type":"entity","name":"x"}`), &it); err != nil {
			t.Fatal(err)
		}
		d, ok := it.Data.(EntityData)
		if !ok {
			t.Fatalf("data decoded as %T, want EntityData", it.Data)
		}
		if d.Field3 == nil || len(d.Field3Options) == 0 {
			t.Errorf("default entity payload not applied: %+v", d)
		}
	})

	t.Run("nil slices normalized on decode", func(t *testing.T) {
		var it Item
		raw := `{"id":"1","type":"chart","name":"x","data":{"field1_id":0}}`
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			t.Fatal(err)
		}
		if it.Data.(ChartData).Field1 == nil {
			t.Error("chart metrics left nil")
		}
	})
}

func TestItemRoundTrip(t *testing.T) {
	orig := Item{
		ID:   "0002",
		Type: ItemChart,
		Name: "Q1 numbers",
		Data: ChartData{
			Field1:   []Metric{{ID: "001", Label: "Sales", Value: MetricValue(85)}},
			Field1ID: 1,
		},
	}
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	var back Item
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	d := back.Data.(ChartData)
	if len(d.Field1) != 1 || *d.Field1[0].Value != 85 || d.Field1ID != 1 {
		t.Errorf("round trip mangled chart data: %+v", d)
	}
}

func TestStateJSONKeys(t *testing.T) {
	b, err := json.Marshal(State{SyncSheetID: "abc", GlobalTitle: "T"})
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"syncSheetId"`, `"globalTitle"`, `"itemsCreated"`, `"lastAction"`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("state encoding missing %s: %s", key, b)
		}
	}
}
