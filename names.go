// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ksched

import "os"

// registryNamePrefix is the fixed prefix of the registry segment name
// (spec §3, §6). Scoping by user lets concurrent deployments by
// different users on one host coexist without colliding.
const registryNamePrefix = "/kernel_scheduler_registry_"

// RegistryName derives the registry's shared-memory segment name from
// the $USER environment variable, falling back to "nouser" when it is
// unset.
func RegistryName() string {
	u := os.Getenv("USER")
	if u == "" {
		u = "nouser"
	}
	return registryNamePrefix + u
}
