package pdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

// fieldOffset returns the byte offset of the named root field.
func fieldOffset(t *testing.T, name string) int {
	t.Helper()
	var off int
	for _, f := range PlayerDataSchema.Root {
		if f.Name == name {
			return off
		}
		off += PlayerDataSchema.TypeSize(f.Type)
	}
	t.Fatalf("no root field %q", name)
	return 0
}

func TestPdataRoundtrip(t *testing.T) {
	obuf := make([]byte, Size())

	var d1 Pdata
	if err := d1.UnmarshalBinary(obuf); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	rbuf, err := d1.MarshalBinary()
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if !bytes.Equal(obuf, rbuf) {
		t.Errorf("round-trip failed: re-marshaled data does not match")
	}

	var d2 Pdata
	if err := d2.UnmarshalBinary(rbuf); err != nil {
		t.Fatalf("failed to unmarshal marshaled data: %v", err)
	}
	if buf, err := d2.MarshalJSON(); err != nil {
		t.Errorf("failed to marshal as JSON: %v", err)
	} else if err = json.Unmarshal(buf, new(map[string]interface{})); err != nil {
		t.Errorf("bad json marshal result: %v", err)
	}
}

func TestPdataMutate(t *testing.T) {
	var d Pdata
	if err := d.UnmarshalBinary(make([]byte, Size())); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	d.root["xp"] = int32(2750)
	d.root["gen"] = int32(5)
	d.root["netWorth"] = int32(-3)
	d.root["lastPlayList"] = "tdm"
	d.root["factionChoice"] = "faction_vinson"

	buf, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var e Pdata
	if err := e.UnmarshalBinary(buf); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if v := e.XP(); v != 2750 {
		t.Errorf("expected xp 2750, got %d", v)
	}
	if v := e.Gen(); v != 5 {
		t.Errorf("expected gen 5, got %d", v)
	}
	if v := e.NetWorth(); v != -3 {
		t.Errorf("expected netWorth -3, got %d", v)
	}
	if v := e.root["lastPlayList"]; v != "tdm" {
		t.Errorf("expected lastPlayList %q, got %q", "tdm", v)
	}
	if v := e.root["factionChoice"]; v != "faction_vinson" {
		t.Errorf("expected factionChoice %q, got %q", "faction_vinson", v)
	}
}

func TestPdataErrors(t *testing.T) {
	t.Run("TrailingBytes", func(t *testing.T) {
		var d Pdata
		err := d.UnmarshalBinary(make([]byte, Size()+3))
		var trailing TrailingBytesError
		if !errors.As(err, &trailing) {
			t.Fatalf("expected TrailingBytesError, got %v", err)
		}
		if int(trailing) != 3 {
			t.Errorf("expected 3 trailing bytes, got %d", int(trailing))
		}
	})
	t.Run("Eof", func(t *testing.T) {
		var d Pdata
		if err := d.UnmarshalBinary(make([]byte, Size()-1)); !errors.Is(err, ErrEof) {
			t.Errorf("expected ErrEof, got %v", err)
		}
		if err := d.UnmarshalBinary(nil); !errors.Is(err, ErrEof) {
			t.Errorf("expected ErrEof, got %v", err)
		}
	})
	t.Run("InvalidEnum", func(t *testing.T) {
		buf := make([]byte, Size())
		buf[fieldOffset(t, "factionChoice")] = 0xff

		var d Pdata
		err := d.UnmarshalBinary(buf)
		var invalid InvalidEnumError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidEnumError, got %v", err)
		}
		if invalid.Enum != "faction" || invalid.Value != 0xff {
			t.Errorf("unexpected error detail: %+v", invalid)
		}
	})
	t.Run("InvalidString", func(t *testing.T) {
		buf := make([]byte, Size())
		buf[fieldOffset(t, "lastFDTitanRef")] = 0xff

		var d Pdata
		if err := d.UnmarshalBinary(buf); !errors.Is(err, ErrInvalidString) {
			t.Errorf("expected ErrInvalidString, got %v", err)
		}
	})
}

func TestPdataJSONFilter(t *testing.T) {
	var d Pdata
	if err := d.UnmarshalBinary(make([]byte, Size())); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	d.root["gen"] = int32(2)

	buf, err := d.MarshalJSONFilter(func(path ...string) bool {
		return len(path) == 1 && (path[0] == "gen" || path[0] == "xp")
	})
	if err != nil {
		t.Fatalf("failed to marshal as JSON: %v", err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(buf, &obj); err != nil {
		t.Fatalf("bad json marshal result: %v", err)
	}
	if len(obj) != 2 {
		t.Errorf("expected 2 fields, got %d (%s)", len(obj), buf)
	}
	if string(obj["gen"]) != "2" {
		t.Errorf("expected gen 2, got %s", obj["gen"])
	}
	if string(obj["xp"]) != "0" {
		t.Errorf("expected xp 0, got %s", obj["xp"])
	}
}

func TestSchemaSize(t *testing.T) {
	// sanity-check a few hand-computed sizes
	if n := PlayerDataSchema.TypeSize(structT("eChallenge")); n != 8 {
		t.Errorf("expected eChallenge size 8, got %d", n)
	}
	if n := PlayerDataSchema.TypeSize(structT("spawnLoadout")); n != 4 {
		t.Errorf("expected spawnLoadout size 4, got %d", n)
	}
	if n := PlayerDataSchema.TypeSize(structT("ranked")); n != 5 {
		t.Errorf("expected ranked size 5, got %d", n)
	}
	if n := Size(); n <= 0 {
		t.Errorf("expected positive blob size, got %d", n)
	}
}
