/*
 * MIT License
 *
 * Copyright (c) 2026 Profile Node Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads and validates the node's line-oriented "key = value"
// properties file through spf13/viper, watching it for changes with
// fsnotify (viper's own WatchConfig/OnConfigChange, which spf13/viper
// already wires to fsnotify internally) and exposing a typed Schema behind
// a *viper.Viper rather than reading raw maps everywhere.
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/sabouaram/profile-node/wire"
)

// requiredKeys is every key the node demands in the properties file; an
// absent key is an error, and a key not in this set or optionalKeys is
// unknown (also an error).
var requiredKeys = []string{
	"server_interface",
	"primary_port",
	"server_neighbor_port",
	"client_customer_port",
	"client_non_customer_port",
	"client_app_service_port",
	"tls_server_certificate",
	"tls_server_certificate_password",
	"image_data_folder",
	"tmp_data_folder",
	"database_path",
	"max_hosted_identities",
	"max_identity_relations",
	"neighborhood_initialization_parallelism",
	"lbn_port",
	"can_api_port",
	"neighbor_profiles_expiration_time",
	"follower_refresh_time",
	"max_neighborhood_size",
	"max_follower_servers_count",
	"test_mode",
}

// optionalKeys are recognized but not required: absent, they take their
// zero value.
var optionalKeys = []string{
	"metrics_address",
}

// RoleEndpointConfig is one configured `(interface, port, tls, role_flags)`
// listener.
type RoleEndpointConfig struct {
	Interface string
	Port      int
	TLS       bool
	Role      wire.Role
}

// Schema is the fully validated, typed view of the properties file.
type Schema struct {
	ServerInterface string

	Endpoints []RoleEndpointConfig

	TLSCertificatePath     string
	TLSCertificatePassword string

	ImageDataFolder string
	TmpDataFolder   string
	DatabasePath    string

	MaxHostedIdentities                   int
	MaxIdentityRelations                  int
	NeighborhoodInitializationParallelism int
	MaxNeighborhoodSize                   int
	MaxFollowerServersCount               int

	LBNPort                       int
	CANAPIPort                    int
	NeighborProfilesExpirationSec int
	FollowerRefreshSec            int

	TestMode bool

	// MetricsAddress is the optional "host:port" to serve /metrics on. A
	// blank value disables the metrics endpoint.
	MetricsAddress string
}

// Load reads path through viper (format "properties", i.e. the same
// `key = value` / `#`-comment grammar as a Java .properties file),
// validates every required key is present and no key is unknown, reads
// values through viper's typed getters, and checks server_interface (an IP
// address or "any"), port ranges and role/LBN/CAN port collisions. Values
// viper cannot convert are read as zero values, not rejected.
func Load(path string) (*Schema, *viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := checkKeys(v); err != nil {
		return nil, nil, err
	}

	schema, err := build(v)
	if err != nil {
		return nil, nil, err
	}

	return schema, v, nil
}

// Watch arms viper's fsnotify-backed file watcher and calls onChange
// (reloaded, rebuilt and re-validated) whenever the file is rewritten.
// onChange errors are not fatal to the watch itself; the caller decides
// whether to keep running on the previous Schema or not.
func Watch(v *viper.Viper, onChange func(*Schema, error)) {
	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := checkKeys(v); err != nil {
			onChange(nil, err)
			return
		}
		schema, err := build(v)
		onChange(schema, err)
	})
	v.WatchConfig()
}

func checkKeys(v *viper.Viper) error {
	present := make(map[string]bool, len(requiredKeys)+len(optionalKeys))
	for _, k := range requiredKeys {
		present[k] = true
		if !v.IsSet(k) {
			return fmt.Errorf("config: missing required key %q", k)
		}
	}
	for _, k := range optionalKeys {
		present[k] = true
	}

	for _, k := range v.AllKeys() {
		if !present[strings.ToLower(k)] {
			return fmt.Errorf("config: unknown key %q", k)
		}
	}

	return nil
}

func build(v *viper.Viper) (*Schema, error) {
	s := &Schema{
		ServerInterface:                        v.GetString("server_interface"),
		TLSCertificatePath:                      v.GetString("tls_server_certificate"),
		TLSCertificatePassword:                  v.GetString("tls_server_certificate_password"),
		ImageDataFolder:                         v.GetString("image_data_folder"),
		TmpDataFolder:                           v.GetString("tmp_data_folder"),
		DatabasePath:                            v.GetString("database_path"),
		MaxHostedIdentities:                     v.GetInt("max_hosted_identities"),
		MaxIdentityRelations:                    v.GetInt("max_identity_relations"),
		NeighborhoodInitializationParallelism:   v.GetInt("neighborhood_initialization_parallelism"),
		MaxNeighborhoodSize:                     v.GetInt("max_neighborhood_size"),
		MaxFollowerServersCount:                 v.GetInt("max_follower_servers_count"),
		LBNPort:                                 v.GetInt("lbn_port"),
		CANAPIPort:                              v.GetInt("can_api_port"),
		NeighborProfilesExpirationSec:           v.GetInt("neighbor_profiles_expiration_time"),
		FollowerRefreshSec:                      v.GetInt("follower_refresh_time"),
		TestMode:                                v.GetBool("test_mode"),
		MetricsAddress:                          v.GetString("metrics_address"),
	}

	if s.ServerInterface != "any" {
		if ip := net.ParseIP(s.ServerInterface); ip == nil {
			return nil, fmt.Errorf("config: server_interface %q is not an IP address or \"any\"", s.ServerInterface)
		}
	}

	roleEndpoints := []struct {
		key  string
		tls  bool
		role wire.Role
	}{
		{"primary_port", false, wire.Primary},
		{"server_neighbor_port", true, wire.ServerNeighbor},
		{"client_customer_port", true, wire.ClientCustomer},
		{"client_non_customer_port", true, wire.ClientNonCustomer},
		{"client_app_service_port", true, wire.ClientAppService},
	}

	usedPorts := make(map[int]string, len(roleEndpoints)+2)
	for _, re := range roleEndpoints {
		port := v.GetInt(re.key)
		if err := checkPort(re.key, port); err != nil {
			return nil, err
		}
		if existing, dup := usedPorts[port]; dup {
			return nil, fmt.Errorf("config: port %d used by both %q and %q", port, existing, re.key)
		}
		usedPorts[port] = re.key

		s.Endpoints = append(s.Endpoints, RoleEndpointConfig{
			Interface: s.ServerInterface,
			Port:      port,
			TLS:       re.tls,
			Role:      re.role,
		})
	}

	if err := checkPort("lbn_port", s.LBNPort); err != nil {
		return nil, err
	}
	if existing, dup := usedPorts[s.LBNPort]; dup {
		return nil, fmt.Errorf("config: port %d used by both %q and \"lbn_port\"", s.LBNPort, existing)
	}
	usedPorts[s.LBNPort] = "lbn_port"

	if err := checkPort("can_api_port", s.CANAPIPort); err != nil {
		return nil, err
	}
	if existing, dup := usedPorts[s.CANAPIPort]; dup {
		return nil, fmt.Errorf("config: port %d used by both %q and \"can_api_port\"", s.CANAPIPort, existing)
	}
	usedPorts[s.CANAPIPort] = "can_api_port"

	return s, nil
}

func checkPort(key string, port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("config: %s=%d out of range 0..65535", key, port)
	}
	return nil
}
