// SPDX-License-Identifier: GPL-2.0-or-later

//go:build !client

package iface

// BuildRealm is the realm this binary is built for.
const BuildRealm = Server
