/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package mqlog

import "testing"

func TestNewLevelLoggerRejectsInvalidLevel(t *testing.T) {
	if _, err := NewLevelLogger(NewMemoryLogger(0), "verbose"); err == nil {
		t.Fatalf("expected error for invalid log level")
	}
}

func TestNewLevelLoggerIsCaseInsensitive(t *testing.T) {
	ll, err := NewLevelLogger(NewMemoryLogger(0), "DEBUG")
	if err != nil {
		t.Fatalf("NewLevelLogger error: %v", err)
	}
	if ll.Level() != Debug {
		t.Fatalf("Level() = %v, want Debug", ll.Level())
	}
}

func TestLevelLoggerFiltersBelowLevel(t *testing.T) {
	mem := NewMemoryLogger(0)
	ll, err := NewLevelLogger(mem, "error")
	if err != nil {
		t.Fatalf("NewLevelLogger error: %v", err)
	}
	ll.LogError("e")
	ll.LogInfo("i")
	ll.LogDebug("d")

	lines := mem.Slice()
	if len(lines) != 1 {
		t.Fatalf("Slice() = %v, want only the error line", lines)
	}
}

func TestLevelLoggerInfoAllowsInfoAndError(t *testing.T) {
	mem := NewMemoryLogger(0)
	ll, err := NewLevelLogger(mem, "info")
	if err != nil {
		t.Fatalf("NewLevelLogger error: %v", err)
	}
	ll.LogError("e")
	ll.LogInfo("i")
	ll.LogDebug("d")

	if len(mem.Slice()) != 2 {
		t.Fatalf("Slice() = %v, want error+info only", mem.Slice())
	}
}

func TestMemoryLoggerRingBufferCap(t *testing.T) {
	mem := NewMemoryLogger(2)
	mem.LogInfo("1")
	mem.LogInfo("2")
	mem.LogInfo("3")

	lines := mem.Slice()
	if len(lines) != 2 || lines[0] != "2" || lines[1] != "3" {
		t.Fatalf("Slice() = %v, want last 2 lines [2 3]", lines)
	}
}

func TestMemoryLoggerReset(t *testing.T) {
	mem := NewMemoryLogger(0)
	mem.LogInfo("hello")
	mem.Reset()
	if len(mem.Slice()) != 0 {
		t.Fatalf("Slice() after Reset() = %v, want empty", mem.Slice())
	}
}

func TestNullLoggerDiscardsEverything(t *testing.T) {
	nl := NewNullLogger()
	nl.LogError("e")
	nl.LogInfo("i")
	nl.LogDebug("d")
}
