package multisig

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ScriptType identifies how the account multisig script is wrapped into the
// final locking script and, with it, the address encoding in use.
type ScriptType int

const (
	// ScriptTypeP2SH is a legacy pay-to-script-hash multisig account.
	ScriptTypeP2SH ScriptType = iota
	// ScriptTypeP2SHP2WSH is a segwit multisig account nested into
	// pay-to-script-hash.
	ScriptTypeP2SHP2WSH
	// ScriptTypeP2WSH is a native segwit (v0) multisig account.
	ScriptTypeP2WSH
)

var (
	scriptTypeString = map[ScriptType]string{
		ScriptTypeP2SH:      "p2sh",
		ScriptTypeP2SHP2WSH: "p2sh-p2wsh",
		ScriptTypeP2WSH:     "p2wsh",
	}
	// ScriptTypes maps the names accepted by config and CLI to the relative
	// script type.
	ScriptTypes = map[string]ScriptType{
		"p2sh":       ScriptTypeP2SH,
		"p2sh-p2wsh": ScriptTypeP2SHP2WSH,
		"p2wsh":      ScriptTypeP2WSH,
	}
)

func (t ScriptType) String() string {
	return scriptTypeString[t]
}

// PathIndex returns the script-type step of the BIP48 account derivation
// path, without the hardened offset.
func (t ScriptType) PathIndex() uint32 {
	return uint32(t)
}

// Scripts wraps the given raw multisig script into the redeem and witness
// scripts of the script type. Scripts not used by the type are nil.
func (t ScriptType) Scripts(script []byte) ([]byte, []byte, error) {
	switch t {
	case ScriptTypeP2SH:
		return script, nil, nil
	case ScriptTypeP2SHP2WSH:
		witnessProgram := sha256.Sum256(script)
		redeemScript, err := txscript.NewScriptBuilder().
			AddOp(txscript.OP_0).AddData(witnessProgram[:]).Script()
		if err != nil {
			return nil, nil, err
		}
		return redeemScript, script, nil
	case ScriptTypeP2WSH:
		return nil, script, nil
	default:
		return nil, nil, ErrInvalidScriptType
	}
}

// Address wraps the given raw multisig script into the locking script form of
// the script type and returns its encoded address for the given network.
func (t ScriptType) Address(
	script []byte, net *chaincfg.Params,
) (btcutil.Address, error) {
	redeemScript, witnessScript, err := t.Scripts(script)
	if err != nil {
		return nil, err
	}

	switch t {
	case ScriptTypeP2SH, ScriptTypeP2SHP2WSH:
		return btcutil.NewAddressScriptHash(redeemScript, net)
	default:
		witnessProgram := sha256.Sum256(witnessScript)
		return btcutil.NewAddressWitnessScriptHash(witnessProgram[:], net)
	}
}

func (t ScriptType) validate() error {
	if _, ok := scriptTypeString[t]; !ok {
		return ErrInvalidScriptType
	}
	return nil
}
