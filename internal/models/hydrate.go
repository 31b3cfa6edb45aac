package models

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// decode fills out from a map produced by Serialize. It also accepts maps that went
// through a JSON round trip (float64 ids, RFC 3339 timestamps).
func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("hydrate %T: %w", out, err)
	}
	return nil
}

// HydrateUser rebuilds a User from its serialized form. Password stays empty.
func HydrateUser(in map[string]any) (*User, error) {
	var u User
	if err := decode(in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// HydratePost rebuilds a Post from its serialized form.
func HydratePost(in map[string]any) (*Post, error) {
	var p Post
	if err := decode(in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// HydrateComment rebuilds a Comment from its serialized form.
func HydrateComment(in map[string]any) (*Comment, error) {
	var c Comment
	if err := decode(in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// HydrateMedia rebuilds a Media from its serialized form.
func HydrateMedia(in map[string]any) (*Media, error) {
	var m Media
	if err := decode(in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// HydrateFollower rebuilds a Follower from its serialized form.
func HydrateFollower(in map[string]any) (*Follower, error) {
	var f Follower
	if err := decode(in, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
