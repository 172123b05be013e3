package server

import "testing"

func TestTranscriptToolDescriptor(t *testing.T) {
	desc := transcriptToolDescriptor()

	if desc.Name != "get_transcript" {
		t.Errorf("name = %q", desc.Name)
	}
	if desc.Description == "" {
		t.Error("descriptor has no description")
	}

	schema := desc.InputSchema
	if schema.Type != "object" {
		t.Fatalf("schema type = %q, want object", schema.Type)
	}

	vid, ok := schema.Properties["video_id"]
	if !ok {
		t.Fatal("schema missing video_id")
	}
	if vid.Type != "string" {
		t.Errorf("video_id type = %q, want string", vid.Type)
	}
	if vid.Description == "" {
		t.Error("video_id has no description")
	}

	langs, ok := schema.Properties["languages"]
	if !ok {
		t.Fatal("schema missing languages")
	}
	if langs.Type != "array" {
		t.Errorf("languages type = %q, want array", langs.Type)
	}
	if langs.Items == nil || langs.Items.Type != "string" {
		t.Errorf("languages items = %+v, want string items", langs.Items)
	}

	if len(schema.Required) != 1 || schema.Required[0] != "video_id" {
		t.Errorf("required = %v, want [video_id]", schema.Required)
	}
}
