// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package models defines the persisted document types and shared response
// shapes used across the PressGate backend: identity records for the four
// principal kinds (admin, publisher, reader, publisher-api), articles with
// their visibility/moderation fields, and static region reference data.
package models
