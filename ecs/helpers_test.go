package ecs

func intPtr(i int) *int { return &i }

func stringPtr(s string) *string { return &s }
