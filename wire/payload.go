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

package wire

// This file declares the concrete payload shapes carried inside
// Message.Single.Body / Message.Conversation.Body / Message.Response.Body.
// There is no wire codegen: these are hand-written structs, (de)serialized
// generically by the frame codec via cbor.

// PingRequest / PingResponse — the Ping handler's payloads.
type PingRequest struct {
	Payload []byte `cbor:"1,keyasint,omitempty"`
}

type PingResponse struct {
	Payload []byte `cbor:"1,keyasint,omitempty"`
	ClockMs int64  `cbor:"2,keyasint,omitempty"`
}

// RoleEndpointInfo describes one configured listener, for ListRoles.
type RoleEndpointInfo struct {
	Role Role   `cbor:"1,keyasint"`
	Port uint16 `cbor:"2,keyasint"`
	TCP  bool   `cbor:"3,keyasint,omitempty"`
	TLS  bool   `cbor:"4,keyasint,omitempty"`
}

type ListRolesResponse struct {
	Roles []RoleEndpointInfo `cbor:"1,keyasint,omitempty"`
}

// StartConversationRequest / StartConversationResponse.
type StartConversationRequest struct {
	SupportedVersions [][3]byte `cbor:"1,keyasint,omitempty"`
	PublicKey         []byte    `cbor:"2,keyasint,omitempty"`
	ClientChallenge   []byte    `cbor:"3,keyasint,omitempty"`
}

type StartConversationResponse struct {
	Version         [3]byte `cbor:"1,keyasint,omitempty"`
	PublicKey       []byte  `cbor:"2,keyasint,omitempty"`
	Challenge       []byte  `cbor:"3,keyasint,omitempty"`
	ClientChallenge []byte  `cbor:"4,keyasint,omitempty"`
	Signature       []byte  `cbor:"5,keyasint,omitempty"`
}

// VerifyIdentityRequest / CheckInRequest carry the server challenge back for
// comparison; the Ed25519 signature itself travels in the envelope-level
// ConversationRequest.Signature field.
type VerifyIdentityRequest struct {
	Challenge []byte `cbor:"1,keyasint,omitempty"`
}

type CheckInRequest struct {
	Challenge []byte `cbor:"1,keyasint,omitempty"`
}

// HomeNodeRequest / RegisterHosting share one empty request shape: the
// identity to host is the session's own, established at StartConversation.
type HomeNodeRequest struct{}

type HomeNodeResponse struct{}

// UpdateProfileRequest carries the set* bitmask plus the fields it touches.
type UpdateProfileRequest struct {
	SetVersion   bool    `cbor:"1,keyasint,omitempty"`
	SetName      bool    `cbor:"2,keyasint,omitempty"`
	SetLocation  bool    `cbor:"3,keyasint,omitempty"`
	SetImage     bool    `cbor:"4,keyasint,omitempty"`
	SetExtraData bool    `cbor:"5,keyasint,omitempty"`
	Version      byte    `cbor:"6,keyasint,omitempty"`
	Name         string  `cbor:"7,keyasint,omitempty"`
	Latitude     float64 `cbor:"8,keyasint,omitempty"`
	Longitude    float64 `cbor:"9,keyasint,omitempty"`
	Image        []byte  `cbor:"10,keyasint,omitempty"`
	ExtraData    string  `cbor:"11,keyasint,omitempty"`
}

// CancelAgreementRequest — used for both CancelHomeNodeAgreement and
// CancelHostingAgreement; Redirect selects the 14-day-with-redirect variant.
type CancelAgreementRequest struct {
	Redirect     bool   `cbor:"1,keyasint,omitempty"`
	TargetNodeID []byte `cbor:"2,keyasint,omitempty"`
}

type ApplicationServiceAddRequest struct {
	Names []string `cbor:"1,keyasint,omitempty"`
}

type ApplicationServiceRemoveRequest struct {
	Name string `cbor:"1,keyasint,omitempty"`
}

type GetIdentityInformationRequest struct {
	IdentityID []byte `cbor:"1,keyasint,omitempty"`
}

type GetIdentityInformationResponse struct {
	IsHosted            bool     `cbor:"1,keyasint,omitempty"`
	IsOnline            bool     `cbor:"2,keyasint,omitempty"`
	PublicKey           []byte   `cbor:"3,keyasint,omitempty"`
	Name                string   `cbor:"4,keyasint,omitempty"`
	ExtraData           string   `cbor:"5,keyasint,omitempty"`
	ProfileImage        []byte   `cbor:"6,keyasint,omitempty"`
	Thumbnail           []byte   `cbor:"7,keyasint,omitempty"`
	ApplicationServices []string `cbor:"8,keyasint,omitempty"`
	TargetHomeNodeID    []byte   `cbor:"9,keyasint,omitempty"`
}

type GetProfileInformationRequest struct {
	IdentityID []byte `cbor:"1,keyasint,omitempty"`
}

// GetProfileInformationResponse reuses the identity-information shape; the
// source protocol distinguishes them by request type only, not by payload.
type GetProfileInformationResponse = GetIdentityInformationResponse

// NeighbourNode describes one entry of the locally known neighborhood.
type NeighbourNode struct {
	NodeID   []byte `cbor:"1,keyasint,omitempty"`
	Address  string `cbor:"2,keyasint,omitempty"`
	Port     uint16 `cbor:"3,keyasint,omitempty"`
	Distance uint32 `cbor:"4,keyasint,omitempty"`
}

type GetNeighbourNodesByDistanceResponse struct {
	Nodes []NeighbourNode `cbor:"1,keyasint,omitempty"`
}

type NeighbourhoodChangedRequest struct {
	ChangedNodeID []byte `cbor:"1,keyasint,omitempty"`
}

type GetNodeCountResponse struct {
	NeighborCount  uint32 `cbor:"1,keyasint,omitempty"`
	FollowerCount  uint32 `cbor:"2,keyasint,omitempty"`
}

type LocalSearchProfileRequest struct {
	NameFragment string `cbor:"1,keyasint,omitempty"`
}

type LocalSearchProfileResponse struct {
	Matches []GetIdentityInformationResponse `cbor:"1,keyasint,omitempty"`
}

type GetRelatedIdentitiesResponse struct {
	IdentityIDs [][]byte `cbor:"1,keyasint,omitempty"`
}

type ApplicationServiceRelayRequest struct {
	TargetIdentityID    []byte `cbor:"1,keyasint,omitempty"`
	ApplicationService string `cbor:"2,keyasint,omitempty"`
}

type ApplicationServiceRelayResponse struct{}
