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

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// wireEnvelope is the flat, codegen-free shape the frame body serializes to.
// Payload is re-encoded against a concrete type selected by ReqType/Kind on
// decode, so callers of Encode/Decode never see a bare map.
type wireEnvelope struct {
	ID         uint32      `cbor:"1,keyasint"`
	Kind       uint8       `cbor:"2,keyasint"`
	ReqType    uint16      `cbor:"3,keyasint,omitempty"`
	Version    [3]byte     `cbor:"4,keyasint,omitempty"`
	Signature  []byte      `cbor:"5,keyasint,omitempty"`
	Status     uint16      `cbor:"6,keyasint,omitempty"`
	Details    string      `cbor:"7,keyasint,omitempty"`
	Payload    interface{} `cbor:"8,keyasint,omitempty"`
	RespondsTo uint8       `cbor:"9,keyasint,omitempty"`
}

var cborEnc, _ = cbor.CanonicalEncOptions().EncMode()

// Encode serializes msg into its body bytes (the bytes that follow the
// frame header). It does not include the marker byte or length prefix.
func Encode(msg *Message) ([]byte, error) {
	env := wireEnvelope{ID: msg.ID, Kind: uint8(msg.Kind)}

	switch msg.Kind {
	case KindSingleRequest:
		if msg.Single == nil {
			return nil, fmt.Errorf("wire: single request body missing")
		}
		env.ReqType = uint16(msg.Single.Type)
		env.Version = msg.Single.Version
		env.Payload = msg.Single.Body
	case KindConversationRequest:
		if msg.Conversation == nil {
			return nil, fmt.Errorf("wire: conversation request body missing")
		}
		env.ReqType = uint16(msg.Conversation.Type)
		env.Signature = msg.Conversation.Signature
		env.Payload = msg.Conversation.Body
	case KindResponse:
		if msg.Response == nil {
			return nil, fmt.Errorf("wire: response body missing")
		}
		env.Kind = uint8(KindResponse)
		env.ReqType = uint16(msg.Response.Type)
		env.Status = msg.Response.Status
		env.Details = msg.Response.Details
		env.RespondsTo = uint8(msg.Response.RespondsTo)
		env.Payload = msg.Response.Body
	default:
		return nil, fmt.Errorf("wire: unknown kind %d", msg.Kind)
	}

	return cborEnc.Marshal(env)
}

// Decode parses body bytes (as produced by Encode) back into a Message.
func Decode(body []byte) (*Message, error) {
	var env wireEnvelope
	if err := cbor.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("wire: decode envelope: %w", err)
	}

	msg := &Message{ID: env.ID, Kind: Kind(env.Kind)}

	switch msg.Kind {
	case KindSingleRequest:
		body, err := decodePayload(RequestType(env.ReqType), env.Payload, false)
		if err != nil {
			return nil, err
		}
		msg.Single = &SingleRequest{
			Version: env.Version,
			Type:    RequestType(env.ReqType),
			Body:    body,
		}
	case KindConversationRequest:
		body, err := decodePayload(RequestType(env.ReqType), env.Payload, false)
		if err != nil {
			return nil, err
		}
		msg.Conversation = &ConversationRequest{
			Type:      RequestType(env.ReqType),
			Signature: env.Signature,
			Body:      body,
		}
	case KindResponse:
		body, err := decodePayload(RequestType(env.ReqType), env.Payload, true)
		if err != nil {
			return nil, err
		}
		msg.Response = &Response{
			RespondsTo: Kind(env.RespondsTo),
			Type:       RequestType(env.ReqType),
			Status:     env.Status,
			Details:    env.Details,
			Body:       body,
		}
	default:
		return nil, fmt.Errorf("wire: unknown kind %d", env.Kind)
	}

	return msg, nil
}

// decodePayload re-marshals the generic payload (decoded by cbor as a
// map[...]interface{}) against the concrete struct for reqType, so callers
// get typed values instead of maps. A nil/empty payload decodes to nil.
func decodePayload(reqType RequestType, raw interface{}, isResponse bool) (interface{}, error) {
	if raw == nil {
		return nil, nil
	}

	target := payloadTarget(reqType, isResponse)
	if target == nil {
		return raw, nil
	}

	b, err := cborEnc.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("wire: re-marshal payload: %w", err)
	}
	if err := cbor.Unmarshal(b, target); err != nil {
		return nil, fmt.Errorf("wire: decode payload for %d: %w", reqType, err)
	}
	return target, nil
}

func payloadTarget(t RequestType, isResponse bool) interface{} {
	switch t {
	case ReqPing:
		if isResponse {
			return &PingResponse{}
		}
		return &PingRequest{}
	case ReqListRoles:
		if isResponse {
			return &ListRolesResponse{}
		}
		return nil
	case ReqStartConversation:
		if isResponse {
			return &StartConversationResponse{}
		}
		return &StartConversationRequest{}
	case ReqVerifyIdentity:
		if isResponse {
			return nil
		}
		return &VerifyIdentityRequest{}
	case ReqCheckIn:
		if isResponse {
			return nil
		}
		return &CheckInRequest{}
	case ReqHomeNodeRequest, ReqRegisterHosting:
		if isResponse {
			return &HomeNodeResponse{}
		}
		return &HomeNodeRequest{}
	case ReqUpdateProfile:
		if isResponse {
			return nil
		}
		return &UpdateProfileRequest{}
	case ReqCancelHomeNodeAgreement, ReqCancelHostingAgreement:
		if isResponse {
			return nil
		}
		return &CancelAgreementRequest{}
	case ReqApplicationServiceAdd:
		if isResponse {
			return nil
		}
		return &ApplicationServiceAddRequest{}
	case ReqApplicationServiceRemove:
		if isResponse {
			return nil
		}
		return &ApplicationServiceRemoveRequest{}
	case ReqGetIdentityInformation:
		if isResponse {
			return &GetIdentityInformationResponse{}
		}
		return &GetIdentityInformationRequest{}
	case ReqGetProfileInformation:
		if isResponse {
			return &GetProfileInformationResponse{}
		}
		return &GetProfileInformationRequest{}
	case ReqGetNeighbourNodesByDistance:
		if isResponse {
			return &GetNeighbourNodesByDistanceResponse{}
		}
		return nil
	case ReqNeighbourhoodChanged:
		if isResponse {
			return nil
		}
		return &NeighbourhoodChangedRequest{}
	case ReqGetNodeCount:
		if isResponse {
			return &GetNodeCountResponse{}
		}
		return nil
	case ReqLocalSearchProfile:
		if isResponse {
			return &LocalSearchProfileResponse{}
		}
		return &LocalSearchProfileRequest{}
	case ReqGetRelatedIdentities:
		if isResponse {
			return &GetRelatedIdentitiesResponse{}
		}
		return nil
	case ReqApplicationServiceRelay:
		if isResponse {
			return &ApplicationServiceRelayResponse{}
		}
		return &ApplicationServiceRelayRequest{}
	default:
		return nil
	}
}
